package chain

// CheckDoneMethod is how the executor decides a script run has finished.
type CheckDoneMethod string

const (
	GameClosed         CheckDoneMethod = "game_closed"
	ScriptClosed       CheckDoneMethod = "script_closed"
	GameOrScriptClosed CheckDoneMethod = "game_or_script_closed"
)

// Choice is one entry of a closed value->label registry.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Desc  string `json:"desc,omitempty"`
}

var checkDoneOptions = []Choice{
	{Value: string(GameClosed), Label: "Game closed", Desc: "the run is done when the game process exits"},
	{Value: string(ScriptClosed), Label: "Script closed", Desc: "the run is done when the script process exits"},
	{Value: string(GameOrScriptClosed), Label: "Game or script closed", Desc: "the run is done when either process exits"},
}

// known game executables
var gameOptions = []Choice{
	{Value: "YuanShen.exe", Label: "Genshin Impact"},
	{Value: "GenshinImpact.exe", Label: "Genshin Impact (Global)"},
	{Value: "StarRail.exe", Label: "Honkai: Star Rail"},
	{Value: "ZenlessZoneZero.exe", Label: "Zenless Zone Zero"},
	{Value: "BH3.exe", Label: "Honkai Impact 3rd"},
}

// known automation script executables
var scriptOptions = []Choice{
	{Value: "pythonw.exe", Label: "OneDragon"},
	{Value: "BetterGI.exe", Label: "BetterGI"},
	{Value: "March7th Assistant.exe", Label: "March7th Assistant"},
	{Value: "MFAAvalonia.exe", Label: "MaaBBB"},
}

var (
	checkDoneLabels = index(checkDoneOptions)
	gameLabels      = index(gameOptions)
	scriptLabels    = index(scriptOptions)
)

func index(opts []Choice) map[string]string {
	m := make(map[string]string, len(opts))
	for _, o := range opts {
		m[o.Value] = o.Label
	}
	return m
}

// Valid reports whether m is one of the recognized methods.
func (m CheckDoneMethod) Valid() bool {
	_, ok := checkDoneLabels[string(m)]
	return ok
}

// Label returns the display label of m, or "" when m is not recognized.
func (m CheckDoneMethod) Label() string { return checkDoneLabels[string(m)] }

// needsGame reports whether completion detection watches the game process.
func (m CheckDoneMethod) needsGame() bool { return m == GameClosed || m == GameOrScriptClosed }

// needsScript reports whether completion detection watches the script process.
func (m CheckDoneMethod) needsScript() bool { return m == ScriptClosed || m == GameOrScriptClosed }

// CheckDoneMethods lists the completion methods in display order.
func CheckDoneMethods() []Choice { return append([]Choice(nil), checkDoneOptions...) }

// KnownGames lists the registered game processes in display order.
func KnownGames() []Choice { return append([]Choice(nil), gameOptions...) }

// KnownScripts lists the registered script processes in display order.
func KnownScripts() []Choice { return append([]Choice(nil), scriptOptions...) }

// GameLabel returns the label registered for a game process name.
func GameLabel(processName string) (string, bool) {
	l, ok := gameLabels[processName]
	return l, ok
}

// ScriptLabel returns the label registered for a script process name.
func ScriptLabel(processName string) (string, bool) {
	l, ok := scriptLabels[processName]
	return l, ok
}

package chain

import (
	"fmt"
	"os"
)

// ValidationKind identifies which entry rule failed.
type ValidationKind int

const (
	EmptyPath ValidationKind = iota + 1
	PathNotFound
	InvalidCheckMethod
	MissingGameProcessName
	MissingScriptProcessName
	NonPositiveTimeout
)

var kindNames = map[ValidationKind]string{
	EmptyPath:                "empty_path",
	PathNotFound:             "path_not_found",
	InvalidCheckMethod:       "invalid_check_method",
	MissingGameProcessName:   "missing_game_process_name",
	MissingScriptProcessName: "missing_script_process_name",
	NonPositiveTimeout:       "non_positive_timeout",
}

func (k ValidationKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("validation_kind(%d)", int(k))
}

// ValidationError is the first rule an entry violates.
type ValidationError struct {
	Kind   ValidationKind
	Path   string          // set for PathNotFound
	Method CheckDoneMethod // set for InvalidCheckMethod
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case EmptyPath:
		return "script path is empty"
	case PathNotFound:
		return fmt.Sprintf("script path does not exist: %s", e.Path)
	case InvalidCheckMethod:
		return fmt.Sprintf("invalid check done method: %q", string(e.Method))
	case MissingGameProcessName:
		return "game process name is empty"
	case MissingScriptProcessName:
		return "script process name is empty"
	case NonPositiveTimeout:
		return "run timeout must be greater than 0"
	}
	return e.Kind.String()
}

// Is matches any *ValidationError of the same kind, so the sentinels below
// work with errors.Is regardless of Path/Method.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

var (
	ErrEmptyPath                = &ValidationError{Kind: EmptyPath}
	ErrPathNotFound             = &ValidationError{Kind: PathNotFound}
	ErrInvalidCheckMethod       = &ValidationError{Kind: InvalidCheckMethod}
	ErrMissingGameProcessName   = &ValidationError{Kind: MissingGameProcessName}
	ErrMissingScriptProcessName = &ValidationError{Kind: MissingScriptProcessName}
	ErrNonPositiveTimeout       = &ValidationError{Kind: NonPositiveTimeout}
)

// PathChecker reports whether a filesystem path exists.
type PathChecker func(path string) bool

// FileExists is the default PathChecker.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Validate checks e against the filesystem with FileExists.
// It returns nil or a *ValidationError for the first failing rule.
func (e Entry) Validate() error { return e.ValidateWith(FileExists) }

// ValidateWith is Validate with a caller supplied existence check.
// Rules run in a fixed order and only the first failure is reported.
func (e Entry) ValidateWith(check PathChecker) error {
	if check == nil {
		check = FileExists
	}
	switch {
	case e.ScriptPath == "":
		return &ValidationError{Kind: EmptyPath}
	case !check(e.ScriptPath):
		return &ValidationError{Kind: PathNotFound, Path: e.ScriptPath}
	case !e.CheckDone.Valid():
		return &ValidationError{Kind: InvalidCheckMethod, Method: e.CheckDone}
	case (e.CheckDone.needsGame() || e.KillGameAfterDone) && e.GameProcessName == "":
		return &ValidationError{Kind: MissingGameProcessName}
	case (e.CheckDone.needsScript() || e.KillScriptAfterDone) && e.ScriptProcessName == "":
		return &ValidationError{Kind: MissingScriptProcessName}
	case e.RunTimeoutSeconds <= 0:
		return &ValidationError{Kind: NonPositiveTimeout}
	}
	return nil
}

package study

import "fmt"

type Variant string

const (
	VariantInfo    Variant = "info"
	VariantSuccess Variant = "success"
	VariantWarning Variant = "warning"
	VariantError   Variant = "error"
)

// Status codes for conditions a client may want to branch on.
const (
	CodeNoFile              = "no_file"
	CodeEmptyData           = "empty_data"
	CodeImportFailed        = "import_failed"
	CodeNotImported         = "not_imported"
	CodeLocked              = "locked"
	CodeIncomplete          = "incomplete"
	CodeAlreadyRevealed     = "already_revealed"
	CodeNoSelectableAnswers = "no_selectable_answers"
	CodeScoreNotComputed    = "score_not_computed"
)

// Status is the one-line message shown after each operation.
type Status struct {
	Message string  `json:"message"`
	Variant Variant `json:"variant"`
	Code    string  `json:"code,omitempty"`
}

func info(format string, args ...interface{}) Status {
	return Status{Message: fmt.Sprintf(format, args...), Variant: VariantInfo}
}

func success(format string, args ...interface{}) Status {
	return Status{Message: fmt.Sprintf(format, args...), Variant: VariantSuccess}
}

func warning(format string, args ...interface{}) Status {
	return Status{Message: fmt.Sprintf(format, args...), Variant: VariantWarning}
}

func (s Status) withCode(code string) Status {
	s.Code = code
	return s
}

func plural(n int, one, many string) string {
	if n > 1 {
		return fmt.Sprintf("%d %s", n, many)
	}
	return fmt.Sprintf("%d %s", n, one)
}

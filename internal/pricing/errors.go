package pricing

import pkgerrors "github.com/Simplici0/doorquote/internal/errors"

// configError reports bad catalog data. It always aborts the calculation.
func configError(attributeID int64, format string, args ...any) *pkgerrors.Error {
	err := pkgerrors.Newf(pkgerrors.CodeConfiguration, format, args...)
	if attributeID != 0 {
		err = err.With("attribute_id", attributeID)
	}
	return err
}

func validationError(format string, args ...any) *pkgerrors.Error {
	return pkgerrors.Newf(pkgerrors.CodeValidation, format, args...)
}

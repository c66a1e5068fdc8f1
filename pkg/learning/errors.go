package learning

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotTrained is returned by Classify before Fit has succeeded
	ErrNotTrained = errors.New("classifier is not trained")

	// ErrClassMismatch is matched by ConfigurationError when priors and
	// likelihoods disagree on the class set
	ErrClassMismatch = errors.New("priors and likelihoods cover different classes")

	// ErrNoClasses is matched by ConfigurationError when Fit gets no classes
	ErrNoClasses = errors.New("no classes to fit")
)

// ConfigurationError reports invalid parameters passed to Fit
type ConfigurationError struct {
	Err          error
	OnlyPriors   []string
	OnlyLikelihs []string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if len(e.OnlyPriors) > 0 {
		fmt.Fprintf(&b, "; only in priors: %s", strings.Join(e.OnlyPriors, ", "))
	}
	if len(e.OnlyLikelihs) > 0 {
		fmt.Fprintf(&b, "; only in likelihoods: %s", strings.Join(e.OnlyLikelihs, ", "))
	}
	return b.String()
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

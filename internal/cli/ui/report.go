package ui

import (
	"errors"

	"github.com/nkaewam/catalogctl/internal/apiclient"
	"github.com/nkaewam/catalogctl/internal/submit"
)

// ReportSubmit prints the outcome of one submission and returns the error
// the command should exit with.
func ReportSubmit(u Service, label string, res submit.Result, err error) error {
	var verr *submit.ValidationError
	switch {
	case errors.As(err, &verr):
		u.Fail("%s not sent: %s", label, verr.Error())
		return err
	case errors.Is(err, submit.ErrSubmitInFlight):
		u.Fail("%s", err.Error())
		return err
	case err != nil:
		u.Fail("%s", apiclient.UserMessage(err, "Failed to save "+label+"."))
		return err
	}

	for _, w := range res.Warnings {
		u.Info("%s", w)
	}
	if res.Total > 1 {
		u.Success("%s %s: %d succeeded, %d skipped, %d failed", label, res.Mode, res.Succeeded, res.Skipped, res.Failed())
	} else if res.Failed() == 0 {
		u.Success("%s %sd", label, res.Mode)
	}
	for _, f := range res.Failures {
		u.Fail("%s: %s", f.Target, apiclient.UserMessage(f.Err, f.Err.Error()))
	}
	return res.Err()
}

package error

import "net/http"

// DownloadInProgressError reports a duplicate concurrent request for the
// same fingerprint. It is terminal for the caller: there is no queueing,
// retry later.
type DownloadInProgressError string

func (err DownloadInProgressError) Error() string {
	return string(err)
}

func (err DownloadInProgressError) ErrCode() string {
	return "DOWNLOAD_IN_PROGRESS"
}

func (err DownloadInProgressError) StatusCode() int {
	return http.StatusConflict
}

// CollaboratorError wraps a failure reported by an external collaborator
// (media extraction or transcription). The message passes through verbatim
// and is never retried here.
type CollaboratorError struct {
	Collaborator string
	Message      string
}

func (err CollaboratorError) Error() string {
	return err.Collaborator + ": " + err.Message
}

func (err CollaboratorError) ErrCode() string {
	return "COLLABORATOR_ERROR"
}

func (err CollaboratorError) StatusCode() int {
	return http.StatusBadGateway
}

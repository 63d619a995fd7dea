package core

import (
	"errors"
	"fmt"
	"strings"
)

// messages.go translates technical errors into user-facing messages with
// stable support codes. Typed pipeline errors resolve directly; everything
// else falls back to message patterns, first match wins.

// UserMessage is the user-facing rendering of an error: what happened, what
// to do about it, and a code to quote when asking for help.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

// errorPattern maps a substring of a technical error message to its
// user-facing form.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "The file exceeds the upload size limit",
			Action:  "Export a smaller sheet or raise UPLOAD_MAX_FILE_SIZE",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was included in the upload",
			Action:  "Choose a CSV file and try again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file contains no student rows",
			Action:  "Check that the sheet has a header row and at least one student",
			Code:    "FILE003",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "The file could not be read as CSV",
			Action:  "Re-export the sheet as CSV and upload it again",
			Code:    "CSV001",
		},
	},
	{
		pattern: "run not found",
		msg: UserMessage{
			Message: "That allocation run no longer exists",
			Action:  "Runs expire after a while; upload the sheet again",
			Code:    "RUN002",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to its user-facing message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var colErr *ColumnNotFoundError
	var prefErr *NoPreferenceColumnsError
	var allocErr *MissingAllocationColumnError
	var rowErr *RowCountMismatchError

	switch {
	case errors.As(err, &colErr):
		return UserMessage{
			Message: fmt.Sprintf("No %s column was found in the file", colErr.Column),
			Action:  "Make sure the sheet has a CGPA column followed by the preference columns",
			Code:    "ALLOC001",
		}
	case errors.As(err, &prefErr):
		return UserMessage{
			Message: fmt.Sprintf("No preference columns follow the %s column", prefErr.After),
			Action:  "Place the ranked faculty preference columns after the CGPA column",
			Code:    "ALLOC002",
		}
	case errors.As(err, &allocErr):
		return UserMessage{
			Message: "The allocation result is missing its AllocatedFaculty column",
			Action:  "Upload the sheet again to rebuild the allocation",
			Code:    "ALLOC003",
		}
	case errors.As(err, &rowErr):
		return UserMessage{
			Message: "The tables cannot be aligned: no shared identifier column and different row counts",
			Action:  "Add a Roll, RollNo, Email, StudentID or ID column to the sheet",
			Code:    "ALLOC004",
		}
	case errors.Is(err, ErrTooManyRuns):
		return UserMessage{
			Message: "The system is busy with other allocation runs",
			Action:  "Please wait a moment and try again",
			Code:    "RUN001",
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

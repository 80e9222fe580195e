package core

// error_messages.go maps technical errors to user-facing messages with a
// support code.
//
// Codes are grouped by category:
//
//	TBL001-TBL099    table construction and storage
//	REF001-REF099    row and column references
//	VAL001-VAL099    request payloads
//	FETCH001-FETCH099 remote fetches
//	RATE001          request throttling
//	ERR000           fallback; check the server log for the original error
//
// Patterns are matched case-insensitively with strings.Contains against the
// full error chain text. The first match wins, so specific patterns come
// before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// Fetch errors come first: their chains often end in a generic
	// transport or context error.
	{
		pattern: "too many concurrent fetches",
		msg: UserMessage{
			Message: "The server is busy fetching other tables",
			Action:  "Please wait a moment and try again",
			Code:    "FETCH001",
		},
	},
	{
		pattern: "response too large",
		msg: UserMessage{
			Message: "The remote file exceeds the size limit",
			Action:  "Fetch a smaller file or import it in parts",
			Code:    "FETCH002",
		},
	},
	{
		pattern: "unsupported url",
		msg: UserMessage{
			Message: "Only http and https URLs can be fetched",
			Action:  "Check the URL",
			Code:    "FETCH003",
		},
	},
	{
		pattern: "address not allowed",
		msg: UserMessage{
			Message: "The server is not allowed to fetch from that address",
			Action:  "Use a publicly reachable URL",
			Code:    "FETCH005",
		},
	},
	{
		pattern: "fetch failed",
		msg: UserMessage{
			Message: "The remote table could not be retrieved",
			Action:  "Check that the URL is reachable and returns delimited text",
			Code:    "FETCH004",
		},
	},

	// Table construction and storage
	{
		pattern: "table not found",
		msg: UserMessage{
			Message: "Table not found",
			Action:  "Verify the table id is correct",
			Code:    "TBL001",
		},
	},
	{
		pattern: "table store full",
		msg: UserMessage{
			Message: "The table limit has been reached",
			Action:  "Delete tables you no longer need",
			Code:    "TBL002",
		},
	},
	{
		pattern: "malformed delimited text",
		msg: UserMessage{
			Message: "The text could not be split into cells",
			Action:  "Check for unterminated quotes on the reported line",
			Code:    "TBL003",
		},
	},
	{
		pattern: "unrecognized table input",
		msg: UserMessage{
			Message: "The input does not describe a table",
			Action:  "Send delimited text, a list of rows or a configuration object",
			Code:    "TBL004",
		},
	},
	{
		pattern: "header mismatch",
		msg: UserMessage{
			Message: "The headers do not match the columns",
			Action:  "Name each column exactly once",
			Code:    "TBL005",
		},
	},
	{
		pattern: "duplicate column name",
		msg: UserMessage{
			Message: "A column with this name already exists",
			Action:  "Choose a different column name",
			Code:    "TBL006",
		},
	},
	{
		pattern: "invalid row key column",
		msg: UserMessage{
			Message: "The row key column does not exist",
			Action:  "Use an existing column name or position",
			Code:    "TBL007",
		},
	},
	{
		pattern: "table size limit exceeded",
		msg: UserMessage{
			Message: "The table would grow past its size limit",
			Action:  "Use smaller row and column positions or split the table",
			Code:    "TBL009",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "The file contains invalid characters",
			Action:  "Save the file as UTF-8",
			Code:    "TBL008",
		},
	},

	// References
	{
		pattern: "row not found",
		msg: UserMessage{
			Message: "Row not found",
			Action:  "Check the row position or the value in the row key column",
			Code:    "REF001",
		},
	},
	{
		pattern: "column not found",
		msg: UserMessage{
			Message: "Column not found",
			Action:  "Check the column name or position",
			Code:    "REF002",
		},
	},
	{
		pattern: "invalid reference",
		msg: UserMessage{
			Message: "The row or column reference is invalid",
			Action:  "Use a non-negative position or a name",
			Code:    "REF003",
		},
	},

	// Payloads
	{
		pattern: "invalid payload shape",
		msg: UserMessage{
			Message: "The data has the wrong shape for this operation",
			Action:  "Send a list, an object keyed by name, or a single value",
			Code:    "VAL001",
		},
	},
	{
		pattern: "can't zip one",
		msg: UserMessage{
			Message: "At least two sequences are needed to zip",
			Action:  "Name two or more rows or columns",
			Code:    "VAL002",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "The request body exceeds the size limit",
			Action:  "Send a smaller table or fetch it by URL",
			Code:    "VAL003",
		},
	},
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Check the request body and parameters",
			Code:    "VAL004",
		},
	},

	// Context
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "ERR001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller table or try again later",
			Code:    "ERR002",
		},
	},

	// Rate limiting
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, a generic fallback with code ERR000 is returned.
//
// Example:
//
//	msg := MapError(fmt.Errorf("%w: no column named \"x\"", table.ErrColumnNotFound))
//	// msg.Code == "REF002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

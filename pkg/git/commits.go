package git

import (
	"strings"
)

// Commit types used by the archive.
const (
	CommitTypeDocs  = "docs"
	CommitTypeChore = "chore"
)

// CommitFooter marks commits written by srec.
const CommitFooter = "Generated-by: srec"

// FormatCommitMessage builds a Conventional Commit message:
//
//	<type>(<scope>): <subject>
//
//	<body>
//
//	Generated-by: srec
func FormatCommitMessage(ctype, scope, subject, body string) string {
	var sb strings.Builder

	if ctype == "" {
		ctype = CommitTypeChore
	}
	sb.WriteString(ctype)

	if scope != "" {
		sb.WriteString("(" + scope + ")")
	}

	sb.WriteString(": ")
	sb.WriteString(subject)

	if body = strings.TrimSpace(body); body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(body)
	}

	sb.WriteString("\n\n")
	sb.WriteString(CommitFooter)
	return sb.String()
}

// AppendFooter adds the footer to a free-form message if missing.
func AppendFooter(msg string) string {
	if strings.Contains(msg, CommitFooter) {
		return msg
	}
	msg = strings.TrimRight(msg, "\n")
	return msg + "\n\n" + CommitFooter
}

package config

const (
	// DefaultPageSize is used when the caller does not send per_page.
	DefaultPageSize = 15

	// MaxPageSize caps every page regardless of what the caller asks for.
	MaxPageSize = 100

	// MaxAspectNameLength matches the aspects.name column.
	MaxAspectNameLength = 255

	// MaxCommentLength is the longest comment body accepted.
	MaxCommentLength = 65535

	// MaxPostLength is the longest status message accepted.
	MaxPostLength = 65535

	// MaxConversationSubjectLength matches the conversations.subject column.
	MaxConversationSubjectLength = 255

	// MaxReportReasonLength bounds the free-text reason of a report.
	MaxReportReasonLength = 1000

	// MaxTitleLength is the number of runes of the first line used as a post title.
	MaxTitleLength = 70
)

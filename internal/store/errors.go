// ABOUTME: Sentinel errors returned by the root controller.
// ABOUTME: Callers match them with errors.Is.
package store

import "errors"

var (
	// ErrNotFound is returned when a medication, account, or companion does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotOnDashboard is returned when a view change is requested before onboarding completes.
	ErrNotOnDashboard = errors.New("onboarding not complete")
	// ErrInvalidView is returned for a view outside the known set.
	ErrInvalidView = errors.New("invalid view")
	// ErrEmptyMessage is returned when a chat message has no content.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrNoStreamingReply is returned when a fragment arrives with no reply in progress.
	ErrNoStreamingReply = errors.New("no reply in progress")
	// ErrReplyInProgress is returned when a message is sent while the companion is still answering.
	ErrReplyInProgress = errors.New("companion is still replying")
)

package notification

// Store handles local notification state. Implementations must be safe for
// concurrent use.
type Store interface {
	// Seed replaces the current contents with a snapshot, typically the
	// historical list fetched at session start. Duplicate ids within the
	// snapshot are collapsed (first entry wins).
	Seed(notifs []Notification)

	// Append adds a newly delivered notification. It returns false when a
	// notification with the same id is already present; the stored entry is
	// left untouched (first delivery wins).
	Append(notif Notification) bool

	// Get retrieves a single notification by id.
	Get(id int64) (*Notification, error)

	// List returns notifications matching opts, newest first.
	List(opts ListOptions) []Notification

	// MarkRead marks a notification as read. Unknown ids are a no-op.
	MarkRead(id int64) bool

	// MarkAllRead marks every unread notification as read and returns the
	// number affected.
	MarkAllRead() int

	// Delete removes a notification. Unknown ids are a no-op.
	Delete(id int64) bool

	// CountUnread returns the number of unread notifications.
	CountUnread() int
}

// ListOptions provides filtering and pagination for listing notifications.
type ListOptions struct {
	Limit      int    // Maximum number of notifications to return (0 = no limit)
	Offset     int    // Number of notifications to skip for pagination
	OnlyUnread bool   // When true, only return unread notifications
	Types      []Type // If specified, only return notifications of these types
}

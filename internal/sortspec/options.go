package sortspec

type options struct {
	preserveShortLists bool
}

// Option configures a Transform at compile time.
type Option func(*options)

// WithShortListsPreserved leaves matched lists of zero or one element in
// place. By default such lists are replaced with null.
func WithShortListsPreserved() Option {
	return func(o *options) { o.preserveShortLists = true }
}

package export

// Dataset defines tabular export content. Rows are keyed by header name so
// renderers can lay columns out independently of map iteration order.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

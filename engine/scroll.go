package engine

import "github.com/brindle-search/jamesql/model"

// Scroll returns a closure that walks query page by page, each call
// re-evaluating the same tree query with an increasing skip. The
// returned function yields one page per call; its second return value
// reports whether a further call may still yield documents. A page
// shorter than pageSize reports false; when the result count is an
// exact multiple of pageSize, the last full page reports true and the
// following call returns an empty page reporting false. Callers can
// stop as soon as they see it go false.
func (e *Engine) Scroll(query *model.TreeQuery, pageSize int) func() (*model.Result, bool) {
	if pageSize <= 0 {
		pageSize = 10
	}
	skip := 0
	exhausted := false

	return func() (*model.Result, bool) {
		if exhausted {
			return &model.Result{Documents: []model.Hit{}}, false
		}
		req := &model.SearchRequest{
			Query:    query,
			Skip:     skip,
			Limit:    pageSize,
			HasLimit: true,
		}
		result := e.Search(req)
		skip += pageSize
		if len(result.Documents) < pageSize {
			exhausted = true
			return result, false
		}
		return result, true
	}
}

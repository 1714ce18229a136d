package filter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/siahsang/ncnews/internal/validator"
)

const (
	DefaultSortBy = "created_at"
	DefaultOrder  = "desc"
	DefaultLimit  = 10
	MaxLimit      = 100
	MaxOffset     = 10_000_000
)

// SortableColumns is the allow-list for sort_by.
var SortableColumns = []string{
	"article_id",
	"title",
	"topic",
	"author",
	"body",
	"created_at",
	"votes",
	"article_img_url",
	"comment_count",
}

type ArticleQuery struct {
	Topic  string
	SortBy string
	Order  string
	Page   int64
	Limit  int64

	// Paginated is set when the caller sent p or limit.
	Paginated bool
}

func (q ArticleQuery) Offset() int64 {
	return (q.Page - 1) * q.Limit
}

// ParseArticleQuery reads the listing parameters, filling in defaults. The
// validator carries one entry per rejected parameter, keyed by its name.
func ParseArticleQuery(values url.Values) (ArticleQuery, *validator.Validator) {
	v := validator.New()

	query := ArticleQuery{
		Topic:  values.Get("topic"),
		SortBy: DefaultSortBy,
		Order:  DefaultOrder,
		Page:   1,
		Limit:  DefaultLimit,
	}

	if values.Has("sort_by") {
		query.SortBy = values.Get("sort_by")
	}
	v.CheckPermitted(query.SortBy, "sort_by", "must be a sortable column", SortableColumns...)

	if values.Has("order") {
		query.Order = strings.ToLower(values.Get("order"))
	}
	v.CheckPermitted(query.Order, "order", "must be asc or desc", "asc", "desc")

	if values.Has("p") {
		query.Paginated = true
		query.Page = readInt(values.Get("p"), "p", v)
		v.Check(query.Page >= 1, "p", "must be greater than 0")
	}

	if values.Has("limit") {
		query.Paginated = true
		query.Limit = readInt(values.Get("limit"), "limit", v)
		v.Check(query.Limit > 0, "limit", "must be greater than 0")
		v.Check(query.Limit <= MaxLimit, "limit", "must be a maximum of 100")
	}

	// Compared by division so a huge p cannot overflow the offset.
	if v.IsValid() {
		v.Check(query.Page-1 <= MaxOffset/query.Limit, "p", "must not put the offset above 10_000_000")
	}

	return query, v
}

func readInt(s, key string, v *validator.Validator) int64 {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		v.AddError(key, "must be an integer value")
		return 0
	}
	return i
}

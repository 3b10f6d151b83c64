package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo-landing/core/lead"
)

var orderingParam = "ordering"

// Ordering binds `?ordering=field,-other` (descending with a "-" prefix).
type Ordering struct {
	Orderings []lead.Ordering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, lead.Ordering{Field: field, Ascending: !descending})
	}
}

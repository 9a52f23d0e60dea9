package endpoint

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tabkit/csvio"
	"github.com/kbukum/tabkit/errors"
)

// dialectOptions reads the delimited-text dialect from the query string:
// comma (one character, "tab" for a tab) and lazy_quotes (bool).
func dialectOptions(c *gin.Context) ([]csvio.Option, error) {
	var opts []csvio.Option
	if comma := c.Query("comma"); comma != "" {
		if strings.EqualFold(comma, "tab") {
			comma = "\t"
		}
		r, size := utf8.DecodeRuneInString(comma)
		if size != len(comma) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
			return nil, errors.InvalidInput("comma", "comma must be a single character other than a quote or line break")
		}
		opts = append(opts, csvio.WithComma(r))
	}
	if lazy := c.Query("lazy_quotes"); lazy != "" {
		on, err := strconv.ParseBool(lazy)
		if err != nil {
			return nil, errors.InvalidInput("lazy_quotes", "lazy_quotes must be a boolean")
		}
		if on {
			opts = append(opts, csvio.WithLazyQuotes())
		}
	}
	return opts, nil
}

// columnsParam collects ?columns=a,b and repeated ?columns= values.
func columnsParam(c *gin.Context) []string {
	var columns []string
	for _, v := range c.QueryArray("columns") {
		columns = append(columns, strings.Split(v, ",")...)
	}
	return columns
}

package endpoint

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tabkit/errors"
	"github.com/kbukum/tabkit/observability"
	"github.com/kbukum/tabkit/recipe"
	"github.com/kbukum/tabkit/server"
)

// Trailers sent after a streamed CSV body.
const (
	TrailerRows  = "X-Tabkit-Rows"
	TrailerError = "X-Tabkit-Error"
)

// ListRecipes returns a handler listing the available recipes.
func ListRecipes(runner *recipe.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := runner.Recipes()
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		server.RespondOKWithMeta(c, list, &server.Meta{Total: len(list)})
	}
}

// ApplyRecipe returns a handler that runs the named recipe over the CSV
// request body and streams the result back as CSV.
//
// Only failures detected before the output header is written (unknown
// recipe, bad dialect, unknown column or invalid header) get a JSON error
// response. Any row-level failure, even on the first data row, comes after
// the header row went out: the status stays 200, the code is sent in the
// X-Tabkit-Error trailer, and X-Tabkit-Rows is only sent on success.
func ApplyRecipe(runner *recipe.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts, err := dialectOptions(c)
		if err != nil {
			server.RespondWithError(c, err)
			return
		}

		out := &csvResponse{c: c}
		n, err := runner.Apply(c.Request.Context(), c.Param("name"), c.Request.Body, out, opts...)
		if err != nil {
			if !out.started {
				server.RespondWithError(c, err)
				return
			}
			c.Writer.Header().Set(TrailerError, observability.ErrorCode(err))
			return
		}
		out.begin()
		c.Writer.Header().Set(TrailerRows, strconv.Itoa(n))
	}
}

// RunRequest names the storage objects a recipe reads and writes.
type RunRequest struct {
	Source string `json:"source" binding:"required"`
	Target string `json:"target" binding:"required,nefield=Source"`
}

// RunResult reports a completed storage run.
type RunResult struct {
	Recipe string `json:"recipe"`
	Source string `json:"source"`
	Target string `json:"target"`
	Rows   int    `json:"rows"`
}

// RunRecipe returns a handler that runs the named recipe from one storage
// object into another.
func RunRecipe(runner *recipe.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RunRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			server.RespondWithError(c, errors.InvalidInput("body", err.Error()))
			return
		}
		name := c.Param("name")
		n, err := runner.Run(c.Request.Context(), name, req.Source, req.Target)
		if err != nil {
			server.RespondWithError(c, err)
			return
		}
		server.RespondOK(c, RunResult{Recipe: name, Source: req.Source, Target: req.Target, Rows: n})
	}
}

// csvResponse commits the CSV headers on the first body write.
type csvResponse struct {
	c       *gin.Context
	started bool
}

func (w *csvResponse) begin() {
	if w.started {
		return
	}
	w.started = true
	h := w.c.Writer.Header()
	h.Set("Content-Type", "text/csv; charset=utf-8")
	h.Set("Trailer", TrailerRows+", "+TrailerError)
	w.c.Status(http.StatusOK)
	w.c.Writer.WriteHeaderNow()
}

func (w *csvResponse) Write(p []byte) (int, error) {
	w.begin()
	return w.c.Writer.Write(p)
}

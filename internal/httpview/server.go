// Package httpview is the localhost-only HTTP renderer described in the
// external-interfaces contract: a thin routing layer over the same
// output.* result structures the CLI renders, never touching
// SnapshotRaw or the snapshot engine's internals directly.
package httpview

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kavanlund/heapsnap/internal/output"
	"github.com/kavanlund/heapsnap/internal/snapshot/cancel"
	"github.com/kavanlund/heapsnap/internal/snapshot/detail"
	"github.com/kavanlund/heapsnap/internal/snapshot/diffkernel"
	"github.com/kavanlund/heapsnap/internal/snapshot/parse"
	"github.com/kavanlund/heapsnap/internal/snapshot/retainers"
	"github.com/kavanlund/heapsnap/internal/snapshot/session"
	"github.com/kavanlund/heapsnap/internal/snapshot/summary"
)

// New builds the gin engine bound to one already-loaded session. Every
// route except /diff reads from sess; /diff opens two fresh files named
// by query parameters, matching the original CLI tool's server mode.
func New(sess *session.Session) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), metricsMiddleware())

	r.GET("/", indexHandler)
	r.GET("/summary", summaryHandler(sess))
	r.GET("/detail", detailHandler(sess))
	r.GET("/retainers", retainersHandler(sess))
	r.GET("/dominator", dominatorHandler(sess))
	r.GET("/diff", diffHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		requestsTotal.WithLabelValues(c.FullPath(), strconv.Itoa(c.Writer.Status())).Inc()
	}
}

func indexHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"routes": []string{"/summary", "/detail", "/retainers", "/dominator", "/diff", "/metrics"},
	})
}

func summaryHandler(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")
		top := queryInt(c, "top", 50)

		result, err := summary.Build(sess.Raw, search, sess.Cancel, sess.Logger)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, output.FromSummary(result, top))
	}
}

func detailHandler(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Query("id")
		name := c.Query("name")
		skip := queryInt(c, "skip", 0)
		limit := queryInt(c, "limit", 200)
		topRetainers := queryInt(c, "top_retainers", 10)
		topEdges := queryInt(c, "top_edges", 10)

		if idStr != "" && name != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "use either id or name, not both"})
			return
		}
		if idStr == "" && name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "either id or name must be specified"})
			return
		}

		if idStr != "" {
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
				return
			}
			d, err := detail.ByIdQuery(sess.Raw, id, skip, limit, topRetainers, topEdges)
			if err != nil {
				writeError(c, err)
				return
			}
			c.JSON(http.StatusOK, output.FromDetailById(d))
			return
		}

		d, err := detail.ByNameQuery(sess.Raw, name, skip, limit)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, output.FromDetailByName(d))
	}
}

func retainersHandler(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Query("id")
		if idStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id query parameter is required"})
			return
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		paths := queryInt(c, "paths", 5)
		maxDepth := queryInt(c, "max_depth", 10)

		target, err := retainers.ResolveByID(sess.Raw, id, sess.Cancel)
		if err != nil {
			writeError(c, err)
			return
		}
		rev, err := sess.ReverseAdjacency(nil)
		if err != nil {
			writeError(c, err)
			return
		}
		result, err := retainers.FindPaths(sess.Raw, target, sess.Root(), paths, maxDepth, rev, sess.Cancel)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, output.FromRetainers(sess.Raw, result))
	}
}

func dominatorHandler(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Query("id")
		if idStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id query parameter is required"})
			return
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		maxDepth := queryInt(c, "max_depth", 50)

		target, err := retainers.ResolveByID(sess.Raw, id, sess.Cancel)
		if err != nil {
			writeError(c, err)
			return
		}
		domMap, err := sess.DominatorMap()
		if err != nil {
			writeError(c, err)
			return
		}
		chain, err := domMap.Chain(target, maxDepth)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, output.FromDominator(target, chain))
	}
}

// diffHandler reads two snapshot files named by file_a/file_b query
// parameters on every request, mirroring the original tool's stateless
// diff route (there is no persistent "session B" to cache).
func diffHandler(c *gin.Context) {
	fileA := c.Query("file_a")
	fileB := c.Query("file_b")
	if fileA == "" || fileB == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_a and file_b query parameters are required"})
		return
	}
	search := c.Query("search")
	top := queryInt(c, "top", 50)

	tok := cancel.New()
	sessA, err := parseFile(fileA, tok)
	if err != nil {
		writeError(c, err)
		return
	}
	sessB, err := parseFile(fileB, tok)
	if err != nil {
		writeError(c, err)
		return
	}

	summaryA, err := summary.Build(sessA.Raw, search, tok, sessA.Logger)
	if err != nil {
		writeError(c, err)
		return
	}
	summaryB, err := summary.Build(sessB.Raw, search, tok, sessB.Logger)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := diffkernel.Build(summaryA, summaryB, tok)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, output.FromDiff(result, top))
}

func parseFile(path string, tok *cancel.Token) (*session.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	started := time.Now()
	raw, err := parse.Read(f, parse.Options{Cancel: tok})
	parseDurationSeconds.Observe(time.Since(started).Seconds())
	if err != nil {
		if tok.Cancelled() {
			cancellationsTotal.Inc()
		}
		return nil, err
	}
	nodesProcessedTotal.Add(float64(raw.NodeCount()))
	return session.New(raw, tok, nil), nil
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func writeError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

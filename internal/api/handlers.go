package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/heatwatch/core"
	"github.com/huangsam/heatwatch/schema"
)

// writeError maps service errors onto status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// attachment sends data as a downloadable CSV file.
func attachment(c *gin.Context, name string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv", data)
}

// Index is the welcome route.
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "welcome to api interface"})
}

// Send ingests the temperature and humidity query parameters.
func (h *Handler) Send(c *gin.Context) {
	res, err := h.svc.ParseAndRecord(c.Request.Context(), c.Query("temperature"), c.Query("humidity"))
	if errors.Is(err, core.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"info": "Value Error! floats only!"})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"info":       "data received",
		"id":         res.Raw.ID,
		"heat_index": res.HeatIndex,
	})
}

// Download returns a snapshot file named by the myfile form or query value.
func (h *Handler) Download(c *gin.Context) {
	name := c.PostForm("myfile")
	if name == "" {
		name = c.Query("myfile")
	}
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "myfile is required"})
		return
	}
	data, err := h.svc.SnapshotCSV(name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	attachment(c, name, data)
}

// Snapshots lists the stored snapshot files.
func (h *Handler) Snapshots(c *gin.Context) {
	files, err := h.svc.ListSnapshots()
	if err != nil {
		h.writeError(c, err)
		return
	}
	if files == nil {
		files = []schema.FileInfo{}
	}
	c.JSON(http.StatusOK, files)
}

// Describe returns the descriptive statistics of a stream, the raw stream by default.
func (h *Handler) Describe(c *gin.Context) {
	stream := schema.Stream(c.DefaultQuery("stream", string(schema.RawStream)))
	if _, ok := schema.ValidStreams[stream]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown stream %q", stream)})
		return
	}
	desc, err := h.svc.Describe(c.Request.Context(), stream)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, desc)
}

func parseLength(c *gin.Context) (int, error) {
	n, err := strconv.Atoi(c.Param("length"))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: length must be a positive integer", core.ErrInvalidInput)
	}
	return n, nil
}

// SensorData returns the last rows of every stream.
func (h *Handler) SensorData(c *gin.Context) {
	n, err := parseLength(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	set, err := h.svc.SensorData(c.Request.Context(), n)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

// SensorDataCSV writes the last rows of the joined streams to an export file and returns it.
func (h *Handler) SensorDataCSV(c *gin.Context) {
	n, err := parseLength(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	name, data, err := h.svc.ExportCSV(c.Request.Context(), n)
	if err != nil {
		h.writeError(c, err)
		return
	}
	attachment(c, name, data)
}

// GetData returns the latest cycle with the current statistics.
func (h *Handler) GetData(c *gin.Context) {
	payload, err := h.svc.LatestData(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

// Stats compares the raw stream against the frozen baseline.
func (h *Handler) Stats(c *gin.Context) {
	cmp, err := h.svc.CurrentStats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

// ResetBaseline refreezes the baseline and returns it.
func (h *Handler) ResetBaseline(c *gin.Context) {
	if err := h.svc.ResetBaseline(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.svc.Baseline())
}

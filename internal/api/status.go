package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态
type StatusResponse struct {
	Ready      bool   `json:"ready"`
	SessionID  string `json:"sessionId,omitempty"`
	TxRows     int    `json:"txRows"`
	MasterRows int    `json:"masterRows"`
}

// GetStatus 系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{}
	if sess, err := h.currentSession(c); err == nil {
		if ds := sess.Dataset(); ds != nil {
			resp.Ready = true
			resp.SessionID = sess.ID
			resp.TxRows = ds.TxRows
			resp.MasterRows = ds.MasterRows
		}
	}
	c.JSON(http.StatusOK, resp)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"ncs/internal/ncsapi"
)

type exportParams struct {
	Fields ncsapi.ProposalFields `json:"fields"`
	Format string                `json:"format"` // "html" or "pages"
}

// RenderProposal turns the submitted form fields into the structured
// document. This is a passthrough formatter, absent fields stay empty.
func RenderProposal(c *gin.Context) {
	var fields ncsapi.ProposalFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"markdown": ncsapi.RenderMarkdown(fields),
		"html":     ncsapi.RenderHTML(fields),
	})
}

// ExportProposal renders the document in the requested format and hands it
// to the export collaborator for delivery.
func ExportProposal(c *gin.Context) {
	app := c.MustGet("app").(*ncsapi.App)
	var eParams exportParams
	if err := c.ShouldBindJSON(&eParams); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	config := ncsapi.RefreshConfig(c, app.Rdb)
	var payload ncsapi.ExportPayload
	switch eParams.Format {
	case "pages":
		document := ncsapi.RenderMarkdown(eParams.Fields)
		payload = ncsapi.ExportPayload{
			Filename: ncsapi.ProposalFilename(eParams.Fields, "pages.json"),
			Format:   "pages",
			Pages: ncsapi.Paginate(
				document,
				config.Settings.Export.LinesPerPage,
				config.Settings.Export.LineWidth,
			),
		}
	case "html", "":
		payload = ncsapi.ExportPayload{
			Filename: ncsapi.ProposalFilename(eParams.Fields, "html"),
			Format:   "html",
			Html:     ncsapi.RenderHTML(eParams.Fields),
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown format"})
		return
	}
	if err := ncsapi.DeliverExport(config, payload); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"filename": payload.Filename, "format": payload.Format})
}

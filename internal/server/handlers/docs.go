package handlers

import (
	"net/http"

	"github.com/swaggo/swag"

	_ "github.com/information-sharing-networks/blog-demo/internal/docs"
)

// HandleSwaggerJSON godoc
//
//	@Summary		OpenAPI document
//	@Description	Returns the OpenAPI (swagger 2.0) description of this API.
//	@Tags			Common
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Router			/docs/swagger.json [get]
func HandleSwaggerJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, "swagger document not registered", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}

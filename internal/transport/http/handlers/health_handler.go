package handlers

import (
	"net/http"

	"github.com/johnlatif16/king-store-esport/internal/transport/http/dto"
)

func Health(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, dto.HealthResponse{OK: true})
}

package handlers

import (
	"net/http"

	"github.com/cloo-solutions/geomed/internal/api"
)

const Banner = "GeoMed AI - Healthcare Professional Country Predictor"

func Root(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, api.MessageResponse{Message: Banner})
}

func Health(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/DMarby/bandfilter/internal/database"
	"github.com/DMarby/bandfilter/internal/handler"
	"github.com/gorilla/mux"
)

const (
	// Default number of items per page
	defaultLimit = 30
	// Max number of items per page
	maxLimit = 100
)

// ListImage contains metadata and download information about an image
type ListImage struct {
	database.Image
	MaxWorkers  int    `json:"max_workers"`
	DownloadURL string `json:"download_url"`
}

// Returns info about an image
func (a *API) infoHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	image, handlerErr := a.getImage(r, mux.Vars(r)["id"])
	if handlerErr != nil {
		return handlerErr
	}

	return a.writeJSON(w, r, a.getListImage(*image))
}

// Paginated list, with `page` and `limit` query parameters
func (a *API) listHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	limit := getLimit(r)
	page := getPage(r)

	images, err := a.Database.ListAll(r.Context())
	if err != nil {
		a.logError(r, "error getting image list from database", err)
		return handler.InternalServerError()
	}

	offset := limit * (page - 1)
	if offset > len(images) {
		offset = len(images)
	}

	end := offset + limit
	if end > len(images) {
		end = len(images)
	}

	list := []ListImage{}
	for _, image := range images[offset:end] {
		list = append(list, a.getListImage(image))
	}

	if link := a.getLinkHeader(page, limit, end == len(images)); link != "" {
		w.Header().Set("Link", link)
	}
	return a.writeJSON(w, r, list)
}

func (a *API) writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) *handler.Error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "private, no-cache, no-store, must-revalidate")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logError(r, "error encoding response", err)
		return handler.InternalServerError()
	}

	return nil
}

func getLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	return limit
}

func getPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	return page
}

func (a *API) getLinkHeader(page, limit int, last bool) string {
	prev := fmt.Sprintf("<%s/v2/list?page=%d&limit=%d>; rel=\"prev\"", a.RootURL, page-1, limit)
	next := fmt.Sprintf("<%s/v2/list?page=%d&limit=%d>; rel=\"next\"", a.RootURL, page+1, limit)

	switch {
	case page == 1 && last:
		return ""
	case page == 1:
		return next
	case last:
		return prev
	default:
		return prev + ", " + next
	}
}

func (a *API) getListImage(image database.Image) ListImage {
	return ListImage{
		Image:       image,
		MaxWorkers:  image.MaxWorkers(),
		DownloadURL: fmt.Sprintf("%s/id/%s/grayscale", a.RootURL, image.ID),
	}
}

func (a *API) getImage(r *http.Request, imageID string) (*database.Image, *handler.Error) {
	image, err := a.Database.Get(r.Context(), imageID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, &handler.Error{Message: err.Error(), Code: http.StatusNotFound}
		}

		a.logError(r, "error getting image from database", err)
		return nil, handler.InternalServerError()
	}

	return image, nil
}

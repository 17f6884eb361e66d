package api

import (
	"fmt"
	"math/rand"
	"net/http"

	"github.com/DMarby/bandfilter/internal/database"
	"github.com/DMarby/bandfilter/internal/handler"
	"github.com/DMarby/bandfilter/internal/params"
	"github.com/gorilla/mux"
	"github.com/twmb/murmur3"
)

func (a *API) imageRedirectHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	// Get the path and query parameters
	p, err := params.GetParams(r)
	if err != nil {
		return handler.BadRequest(err.Error())
	}

	// Get the image from the database
	image, handlerErr := a.getImage(r, mux.Vars(r)["id"])
	if handlerErr != nil {
		return handlerErr
	}

	// Validate the params and redirect to the image service
	return a.validateAndRedirect(w, r, p, image)
}

func (a *API) seedImageRedirectHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	// Get the path and query parameters
	p, err := params.GetParams(r)
	if err != nil {
		return handler.BadRequest(err.Error())
	}

	// Get the image seed
	imageSeed := mux.Vars(r)["seed"]

	images, err := a.Database.ListAll(r.Context())
	if err != nil {
		a.logError(r, "error getting image list from database", err)
		return handler.InternalServerError()
	}

	if len(images) == 0 {
		return &handler.Error{Message: database.ErrNotFound.Error(), Code: http.StatusNotFound}
	}

	// Hash the input using murmur3, and pick an image with it
	random := rand.New(rand.NewSource(int64(murmur3.StringSum64(imageSeed))))
	image := images[random.Intn(len(images))]

	// The seed also places the holes, unless one was given explicitly
	if p.Seed == "" {
		p.Seed = imageSeed
	}

	return a.validateAndRedirect(w, r, p, &image)
}

func (a *API) validateAndRedirect(w http.ResponseWriter, r *http.Request, p *params.Params, image *database.Image) *handler.Error {
	if err := p.Validate(image, p.WorkerCount(a.Workers)); err != nil {
		return handler.BadRequest(err.Error())
	}

	path := fmt.Sprintf("/id/%s/%s%s", image.ID, p.Filter, p.Extension)
	signed, err := params.HMAC(a.HMAC, path, p.Query())
	if err != nil {
		a.logError(r, "error signing image url", err)
		return handler.InternalServerError()
	}

	w.Header().Set("Cache-Control", "private, no-cache, no-store, must-revalidate")
	w.Header()["Content-Type"] = nil
	http.Redirect(w, r, a.ImageServiceURL+signed, http.StatusFound)

	return nil
}

package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oceanminded/insurance-application-form/internal/cqrs"
	"github.com/oceanminded/insurance-application-form/internal/middleware"
	"github.com/oceanminded/insurance-application-form/internal/models"
	"github.com/oceanminded/insurance-application-form/internal/repository"
	"github.com/oceanminded/insurance-application-form/internal/rules"
	"github.com/oceanminded/insurance-application-form/internal/utils"
)

// ApplicationCommander defines the write-side operations used by ApplicationHandler.
type ApplicationCommander interface {
	CreateApplication(cqrs.CreateApplicationCommand) (*models.Application, error)
	UpdateApplication(cqrs.UpdateApplicationCommand) (*models.Application, error)
	AddVehicle(cqrs.AddVehicleCommand) (*models.Application, error)
	AddPerson(cqrs.AddPersonCommand) (*models.Application, error)
	RemoveVehicle(cqrs.RemoveVehicleCommand) (*models.Application, error)
	RemovePerson(cqrs.RemovePersonCommand) (*models.Application, error)
}

// ApplicationQuerier defines the read-side operations used by ApplicationHandler.
type ApplicationQuerier interface {
	GetApplication(cqrs.GetApplicationQuery) (*models.ApplicationView, error)
	GenerateQuote(cqrs.GenerateQuoteQuery) (float64, error)
}

// ApplicationHandler routes requests to the command or query service as
// appropriate and maps the error taxonomy onto HTTP statuses: validation
// failures to 400, missing records to 404, everything else to 500.
type ApplicationHandler struct {
	commands ApplicationCommander
	queries  ApplicationQuerier
	shape    *middleware.RequestShapeValidator
	baseURL  string
}

// AddVehicleRequest is the typed payload for the add-vehicle endpoint. Shape
// validation only requires every field to be present; the year range rule is
// applied by the rules package at quote time.
type AddVehicleRequest struct {
	VIN   string `json:"vin" validate:"required"`
	Make  string `json:"make" validate:"required"`
	Model string `json:"model" validate:"required"`
	Year  *int   `json:"year" validate:"required"`
}

// AddPersonRequest is the typed payload for the add-person endpoint.
type AddPersonRequest struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Relationship string `json:"relationship" validate:"required,oneof=Spouse Sibling Parent Friend Other"`
	DateOfBirth  string `json:"dateOfBirth" validate:"required"`
}

type CreateApplicationResponse struct {
	Application *models.Application `json:"application"`
	ResumeURL   string              `json:"resumeUrl"`
}

type QuoteResponse struct {
	Price float64 `json:"price"`
}

// quoteErrorBody is the structured validation-failure payload: a kind
// discriminator plus per-field details. Message keeps the legacy
// "Validation failed: " prefix for callers that still match on it.
type quoteErrorBody struct {
	Error quoteErrorDetail `json:"error"`
}

type quoteErrorDetail struct {
	Kind    string             `json:"kind"`
	Message string             `json:"message"`
	Details []rules.FieldError `json:"details"`
}

func NewApplicationHandler(commands ApplicationCommander, queries ApplicationQuerier, baseURL string) *ApplicationHandler {
	return &ApplicationHandler{
		commands: commands,
		queries:  queries,
		shape:    middleware.NewRequestShapeValidator(),
		baseURL:  baseURL,
	}
}

// RegisterRoutes mounts the application routes on router.
func (h *ApplicationHandler) RegisterRoutes(router gin.IRouter) {
	apps := router.Group("/applications")
	{
		apps.POST("", h.CreateApplication)
		apps.GET("/:id", h.GetApplication)
		apps.PUT("/:id", h.UpdateApplication)
		apps.POST("/:id/quote", h.GenerateQuote)
		apps.POST("/:id/vehicles", h.AddVehicle)
		apps.POST("/:id/people", h.AddPerson)
		apps.DELETE("/:id/vehicles/:vehicleId", h.DeleteVehicle)
		apps.DELETE("/:id/people/:personId", h.DeletePerson)
	}
}

// CreateApplication stores a new draft. No domain validation runs here: an
// application may be created incomplete and resumed later via resumeUrl.
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	app, err := h.commands.CreateApplication(cqrs.CreateApplicationCommand{
		Application: rules.Normalize(raw),
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, CreateApplicationResponse{
		Application: app,
		ResumeURL:   fmt.Sprintf("%s/applications/%s", h.baseURL, app.ID),
	})
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	view, err := h.queries.GetApplication(cqrs.GetApplicationQuery{
		ApplicationID: c.Param("id"),
	})
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Application not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, view)
}

// UpdateApplication replaces the application and both child collections.
func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	app, err := h.commands.UpdateApplication(cqrs.UpdateApplicationCommand{
		ApplicationID: c.Param("id"),
		Application:   rules.Normalize(raw),
	})
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Application not found")
			return
		}
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) GenerateQuote(c *gin.Context) {
	price, err := h.queries.GenerateQuote(cqrs.GenerateQuoteQuery{
		ApplicationID: c.Param("id"),
	})
	if err != nil {
		var vErr *rules.ValidationFailedError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, quoteErrorBody{Error: quoteErrorDetail{
				Kind:    "validation_failed",
				Message: vErr.Error(),
				Details: vErr.Errors,
			}})
		case errors.Is(err, repository.ErrApplicationNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Application not found")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, QuoteResponse{Price: price})
}

func (h *ApplicationHandler) AddVehicle(c *gin.Context) {
	var req AddVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := h.shape.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	app, err := h.commands.AddVehicle(cqrs.AddVehicleCommand{
		ApplicationID: c.Param("id"),
		Vehicle: models.Vehicle{
			VIN:   req.VIN,
			Make:  req.Make,
			Model: req.Model,
			Year:  req.Year,
		},
	})
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Application not found")
			return
		}
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) AddPerson(c *gin.Context) {
	var req AddPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := h.shape.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	// An unparsable date is stored as absent and surfaces later as a
	// "required" validation error, never as a hard failure here.
	app, err := h.commands.AddPerson(cqrs.AddPersonCommand{
		ApplicationID: c.Param("id"),
		Person: models.Person{
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Relationship: req.Relationship,
			DateOfBirth:  rules.ParseDate(req.DateOfBirth),
		},
	})
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Application not found")
			return
		}
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) DeleteVehicle(c *gin.Context) {
	vehicleID := c.Param("vehicleId")
	if !utils.ValidateVehicleID(vehicleID) {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid vehicle ID format")
		return
	}

	app, err := h.commands.RemoveVehicle(cqrs.RemoveVehicleCommand{
		ApplicationID: c.Param("id"),
		VehicleID:     vehicleID,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrApplicationNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Application not found")
		case errors.Is(err, repository.ErrVehicleNotFound):
			middleware.RespondWithError(c, http.StatusBadRequest, "Vehicle not found")
		default:
			middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) DeletePerson(c *gin.Context) {
	personID := c.Param("personId")
	if !utils.ValidatePersonID(personID) {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid person ID format")
		return
	}

	app, err := h.commands.RemovePerson(cqrs.RemovePersonCommand{
		ApplicationID: c.Param("id"),
		PersonID:      personID,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrApplicationNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "Application not found")
		case errors.Is(err, repository.ErrPersonNotFound):
			middleware.RespondWithError(c, http.StatusBadRequest, "Person not found")
		default:
			middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, app)
}

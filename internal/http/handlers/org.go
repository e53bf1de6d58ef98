package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PelicanED-online/pelicaned-backend/internal/http/response"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
	"github.com/PelicanED-online/pelicaned-backend/internal/services"
)

type OrgHandler struct {
	log *logger.Logger
	org services.OrgService
}

func NewOrgHandler(log *logger.Logger, org services.OrgService) *OrgHandler {
	return &OrgHandler{log: log.With("handler", "OrgHandler"), org: org}
}

// GET /api/districts
func (h *OrgHandler) ListDistricts(c *gin.Context) {
	districts, err := h.org.ListDistricts(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err, "load_districts_failed")
		return
	}
	response.RespondOK(c, gin.H{"districts": districts})
}

// POST /api/districts
func (h *OrgHandler) CreateDistrict(c *gin.Context) {
	var req services.DistrictInput
	if !bindJSON(c, &req) {
		return
	}
	district, err := h.org.CreateDistrict(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err, "create_district_failed")
		return
	}
	response.RespondCreated(c, district)
}

// GET /api/districts/:id/domains
func (h *OrgHandler) ListDomains(c *gin.Context) {
	districtID, ok := uuidParam(c, "id", "invalid_district_id")
	if !ok {
		return
	}
	domains, err := h.org.ListDomains(c.Request.Context(), districtID)
	if err != nil {
		response.RespondAPIError(c, err, "load_domains_failed")
		return
	}
	response.RespondOK(c, gin.H{"domains": domains})
}

// POST /api/districts/:id/domains
func (h *OrgHandler) AddDomain(c *gin.Context) {
	districtID, ok := uuidParam(c, "id", "invalid_district_id")
	if !ok {
		return
	}
	var req struct {
		Domain string `json:"domain"`
	}
	if !bindJSON(c, &req) {
		return
	}
	domain, err := h.org.AddDomain(c.Request.Context(), districtID, req.Domain)
	if err != nil {
		response.RespondAPIError(c, err, "add_domain_failed")
		return
	}
	response.RespondCreated(c, domain)
}

// DELETE /api/districts/:id/domains/:domainId
func (h *OrgHandler) RemoveDomain(c *gin.Context) {
	districtID, ok := uuidParam(c, "id", "invalid_district_id")
	if !ok {
		return
	}
	domainID, ok := uuidParam(c, "domainId", "invalid_domain_id")
	if !ok {
		return
	}
	if err := h.org.RemoveDomain(c.Request.Context(), districtID, domainID); err != nil {
		response.RespondAPIError(c, err, "remove_domain_failed")
		return
	}
	response.RespondNoContent(c)
}

// GET /api/districts/:id/schools
func (h *OrgHandler) ListSchools(c *gin.Context) {
	districtID, ok := uuidParam(c, "id", "invalid_district_id")
	if !ok {
		return
	}
	schools, err := h.org.ListSchools(c.Request.Context(), districtID)
	if err != nil {
		response.RespondAPIError(c, err, "load_schools_failed")
		return
	}
	response.RespondOK(c, gin.H{"schools": schools})
}

// POST /api/districts/:id/schools
func (h *OrgHandler) CreateSchool(c *gin.Context) {
	districtID, ok := uuidParam(c, "id", "invalid_district_id")
	if !ok {
		return
	}
	var req services.SchoolInput
	if !bindJSON(c, &req) {
		return
	}
	school, err := h.org.CreateSchool(c.Request.Context(), districtID, req)
	if err != nil {
		response.RespondAPIError(c, err, "create_school_failed")
		return
	}
	response.RespondCreated(c, school)
}

// GET /api/academic-years?district_id=
func (h *OrgHandler) ListAcademicYears(c *gin.Context) {
	var districtID *uuid.UUID
	if raw := c.Query("district_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_district_id", errInvalidID)
			return
		}
		districtID = &id
	}
	years, err := h.org.ListAcademicYears(c.Request.Context(), districtID)
	if err != nil {
		response.RespondAPIError(c, err, "load_academic_years_failed")
		return
	}
	response.RespondOK(c, gin.H{"academic_years": years})
}

// POST /api/academic-years
func (h *OrgHandler) CreateAcademicYear(c *gin.Context) {
	var req services.AcademicYearInput
	if !bindJSON(c, &req) {
		return
	}
	year, err := h.org.CreateAcademicYear(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err, "create_academic_year_failed")
		return
	}
	response.RespondCreated(c, year)
}

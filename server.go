package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"customer-nav/internal/calculator"
	"customer-nav/internal/config"
	"customer-nav/internal/directory"
	"customer-nav/internal/excel"
	"customer-nav/internal/models"
	"customer-nav/internal/navigator"
	"customer-nav/internal/store"
)

const maxUploadSize = 32 << 20

type Server struct {
	cfg      config.Config
	store    *store.Store
	sessions *SessionRegistry
	jobs     *JobStore
	rankLog  calculator.LoggerCallback
}

func NewServer(cfg config.Config, st *store.Store) *Server {
	return &Server{
		cfg:      cfg,
		store:    st,
		sessions: NewSessionRegistry(),
		jobs:     NewJobStore(),
		rankLog:  func(msg string) { log.Print(msg) },
	}
}

// directorySource is where new map sessions fetch their customer listing.
func (s *Server) directorySource() directory.Source {
	if s.cfg.Directory.SourceURL != "" {
		return directory.NewHTTPSource(s.cfg.Directory.SourceURL, s.cfg.Directory.Timeout)
	}
	return directory.StoreSource{Store: s.store}
}

func (s *Server) mapSettings() MapSettings {
	return MapSettings{
		TileURL:     s.cfg.Map.TileURL,
		MaxZoom:     s.cfg.Map.MaxZoom,
		InitialZoom: s.cfg.Map.InitialZoom,
		Center:      models.Coordinate{Lat: s.cfg.Map.CenterLat, Lon: s.cfg.Map.CenterLon},
	}
}

// Router builds the API. Pages and static assets are added by RegisterPages.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	cookieStore := cookie.NewStore([]byte(s.cfg.Server.SessionSecret))
	cookieStore.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 86400 * 30})
	r.Use(sessions.Sessions("custnav", cookieStore))
	r.Use(browserSession)

	r.GET("/ws", s.handleWebSocket)

	api := r.Group("/api")
	{
		api.GET("/customers", s.listCustomers)
		api.GET("/customers.xlsx", s.exportCustomers)
		api.GET("/customers/nearest", s.nearestCustomers)
		api.POST("/customers/import", s.importCustomers)
		api.GET("/jobs/:id", s.jobStatus)

		api.GET("/route", s.routeSummary)
		api.GET("/route.geojson", s.routeGeoJSON)
		api.GET("/route.xlsx", s.routeWorkbook)
	}
	return r
}

func (s *Server) RegisterPages(r *gin.Engine) {
	r.LoadHTMLGlob(s.cfg.Server.Templates)
	r.Static("/static", s.cfg.Server.StaticDir)
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{})
	})
}

func (s *Server) listCustomers(c *gin.Context) {
	customers, err := s.store.List(c.Request.Context())
	if err != nil {
		log.Printf("Error listing customers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not list customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

// exportCustomers downloads the store in the sheet layout the import accepts.
func (s *Server) exportCustomers(c *gin.Context) {
	customers, err := s.store.List(c.Request.Context())
	if err != nil {
		log.Printf("Error listing customers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not list customers"})
		return
	}
	var buf bytes.Buffer
	if err := excel.WriteCustomers(&buf, customers, s.cfg.Store.SeedSheet); err != nil {
		log.Printf("Error writing customer workbook: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not write workbook"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "customers.xlsx"))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (s *Server) nearestCustomers(c *gin.Context) {
	lat, err1 := strconv.ParseFloat(c.Query("lat"), 64)
	lon, err2 := strconv.ParseFloat(c.Query("lon"), 64)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid 'lat' or 'lon' parameters"})
		return
	}
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid 'limit' parameter"})
			return
		}
		limit = n
	}

	customers, err := s.store.List(c.Request.Context())
	if err != nil {
		log.Printf("Error listing customers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not list customers"})
		return
	}
	if len(customers) == 0 {
		c.JSON(http.StatusOK, []models.NearestRow{})
		return
	}

	rows, err := calculator.RankNearest(models.Coordinate{Lat: lat, Lon: lon}, customers, limit, s.rankLog)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) importCustomers(c *gin.Context) {
	file, err := c.FormFile("input_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "please choose a file"})
		return
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"ok": false, "error": "file too large"})
		return
	}
	sheet := c.PostForm("sheet")
	if sheet == "" {
		sheet = s.cfg.Store.SeedSheet
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "could not read upload"})
		return
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "could not read upload"})
		return
	}

	job := NewJob()
	s.jobs.Add(job)
	go processImport(job, data, filepath.Base(file.Filename), sheet, s.store)

	c.JSON(http.StatusAccepted, gin.H{"ok": true, "job_id": job.ID})
}

func (s *Server) jobStatus(c *gin.Context) {
	job := s.jobs.Get(c.Param("id"))
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Job not found"})
		return
	}
	c.JSON(http.StatusOK, job.View())
}

// activeRoute finds the route of the caller's connected map page.
func (s *Server) activeRoute(c *gin.Context) (navigator.Summary, bool) {
	sess := s.sessions.Get(c.GetString(sessionKey))
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no open map session"})
		return navigator.Summary{}, false
	}
	summary, err := sess.Controller.Route()
	if errors.Is(err, navigator.ErrNoRoute) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Please set the route first."})
		return navigator.Summary{}, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return navigator.Summary{}, false
	}
	return summary, true
}

func (s *Server) routeSummary(c *gin.Context) {
	summary, ok := s.activeRoute(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) routeGeoJSON(c *gin.Context) {
	summary, ok := s.activeRoute(c)
	if !ok {
		return
	}
	raw, err := summary.FeatureCollection().MarshalJSON()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/geo+json", raw)
}

func (s *Server) routeWorkbook(c *gin.Context) {
	summary, ok := s.activeRoute(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := excel.WriteRoute(&buf, summary.Legs, "Route"); err != nil {
		log.Printf("Error writing route workbook: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not write workbook"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "route.xlsx"))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

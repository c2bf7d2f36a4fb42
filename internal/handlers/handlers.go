// Package handlers exposes the services over HTTP with gin.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"bookstore-backend/internal/apperr"
	"bookstore-backend/internal/models"
	"bookstore-backend/internal/service"
	"bookstore-backend/internal/storage"
)

type Handler struct {
	svc  *service.Services
	disk storage.Disk
	log  *zap.SugaredLogger
}

func New(svc *service.Services, disk storage.Disk, log *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, disk: disk, log: log}
}

var registerOnce sync.Once

// useJSONFieldNames makes validator report fields by their json name.
func useJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// respondError writes err as {"error": ...}. Store failures are logged and
// reported generically.
func (h *Handler) respondError(c *gin.Context, err error) {
	e := apperr.As(err)
	if e.Kind == apperr.KindStore {
		_ = c.Error(err)
		h.log.Errorw("request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
		return
	}
	body := gin.H{"error": e.Message}
	if e.Field != "" {
		body["field"] = e.Field
	}
	c.JSON(e.Kind.Status(), body)
}

// bindError converts gin binding failures into validation errors.
func bindError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		return apperr.ValidationField(fe.Field(), fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
	}
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return apperr.Validation("invalid number: " + ne.Num)
	}
	return apperr.Validation("invalid input")
}

func (h *Handler) pathID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := service.ParseID(c.Param(param), "id")
	if err != nil {
		h.respondError(c, err)
		return id, false
	}
	return id, true
}

// looseString accepts a JSON string or number, so "12", 12 and "" all reach
// the number parsers. Checkout clients also send pincodes either way.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*s = looseString(n)
	return nil
}

func numStr(n *looseString) *string {
	if n == nil {
		return nil
	}
	s := string(*n)
	return &s
}

func parseFloat(n looseString, field string) (float64, error) {
	raw := strings.TrimSpace(string(n))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperr.ValidationField(field, field+" must be a number")
	}
	return v, nil
}

// parseCount parses an optional whole number. Blank values yield nil.
func parseCount(n looseString, field string) (*int, error) {
	if strings.TrimSpace(string(n)) == "" {
		return nil, nil
	}
	v, err := parseFloat(n, field)
	if err != nil {
		return nil, err
	}
	if v != math.Trunc(v) {
		return nil, apperr.ValidationField(field, field+" must be a whole number")
	}
	i := int(v)
	return &i, nil
}

// formUpload opens an optional multipart file. The returned closer is never
// nil.
func formUpload(c *gin.Context, field string) (*service.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// missing file or a non-multipart body: nothing uploaded
		return nil, func() {}, nil
	}
	return openUpload(fh)
}

func openUpload(fh *multipart.FileHeader) (*service.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, apperr.Store("open upload", err)
	}
	return &service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}, func() { f.Close() }, nil
}

// ---- response views ----

// scheme reports how this server was reached. Forwarding headers are client
// controlled and are not consulted.
func scheme(c *gin.Context) string {
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

func fileURL(c *gin.Context, ref string) string {
	return storage.FileURL(scheme(c), c.Request.Host, ref)
}

func itemView(c *gin.Context, it *models.Item) models.Item {
	out := *it
	out.CoverImageFile = fileURL(c, it.CoverImageFile)
	out.PDFFile = fileURL(c, it.PDFFile)
	if out.Reviews == nil {
		out.Reviews = []models.Review{}
	}
	return out
}

func itemViews(c *gin.Context, items []models.Item) []models.Item {
	out := make([]models.Item, 0, len(items))
	for i := range items {
		out = append(out, itemView(c, &items[i]))
	}
	return out
}

type profileView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Image string `json:"image"`
}

func newProfileView(c *gin.Context, p *models.Principal) profileView {
	return profileView{
		ID:    p.ID.Hex(),
		Name:  p.Name,
		Email: p.Email,
		Phone: p.Phone,
		Image: fileURL(c, p.Image),
	}
}

type accountView struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Image     string      `json:"image"`
	Role      models.Role `json:"role"`
	CreatedAt string      `json:"createdAt"`
}

func accountViews(c *gin.Context, ps []models.Principal) []accountView {
	out := make([]accountView, 0, len(ps))
	for _, p := range ps {
		out = append(out, accountView{
			ID:        p.ID.Hex(),
			Name:      p.Name,
			Email:     p.Email,
			Phone:     p.Phone,
			Image:     fileURL(c, p.Image),
			Role:      p.Role,
			CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

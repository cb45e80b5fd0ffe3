package api

import (
	"bytes"         // Null detection
	"encoding/json" // Raw value field
	"net/http"      // HTTP status codes
	"strings"       // Item type comparison

	"wealthwise/internal/domain"     // Domain models
	"wealthwise/internal/middleware" // Caller lookup
	"wealthwise/internal/service"    // Ledger service

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/shopspring/decimal" // Decimal values
)

// ItemRequest is the body of item writes. Absent fields stay nil so PATCH
// can tell them apart from empty ones.
type ItemRequest struct {
	Name          *string         `json:"name"`
	Value         json.RawMessage `json:"value"` // number or numeric string
	ItemType      *string         `json:"item_type"`
	AssetCategory *string         `json:"asset_category"`
	Description   *string         `json:"description"`
	GroupID       *uint           `json:"group_id"` // superusers only
}

// toInput converts the request for an endpoint serving itemType
func (r ItemRequest) toInput(itemType domain.ItemType) (service.ItemInput, *domain.ValidationError) {
	verr := &domain.ValidationError{}
	in := service.ItemInput{
		ItemType:      itemType,
		Name:          r.Name,
		AssetCategory: r.AssetCategory,
		Description:   r.Description,
		GroupID:       r.GroupID,
	}
	if r.ItemType != nil && domain.ItemType(strings.ToUpper(*r.ItemType)) != itemType {
		verr.Add("item_type", "Item type must be "+string(itemType)+" on this endpoint.")
	}
	if len(r.Value) > 0 && !bytes.Equal(bytes.TrimSpace(r.Value), []byte("null")) {
		var v decimal.Decimal
		if err := v.UnmarshalJSON(r.Value); err != nil {
			verr.Add("value", "A valid number is required.")
		} else {
			in.Value = &v
		}
	}
	return in, verr
}

// itemHandlers serves one item type; assets and liabilities share the code
type itemHandlers struct {
	ledger   *service.Ledger
	itemType domain.ItemType
	listKey  string
}

func (h itemHandlers) list(c *gin.Context) {
	page := pageFromQuery(c)
	result, err := h.ledger.List(c.Request.Context(), middleware.Actor(c), h.itemType, page)
	if err != nil {
		respondError(c, err)
		return
	}
	rows := make([]ItemResponse, len(result.Items))
	for i := range result.Items {
		rows[i] = newItemResponse(&result.Items[i], h.ledger.Categories())
	}
	c.JSON(http.StatusOK, paginated(c, h.listKey, page, result.Total, rows))
}

func (h itemHandlers) create(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}
	item, err := h.ledger.Create(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newItemResponse(item, h.ledger.Categories()))
}

func (h itemHandlers) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, domain.ErrNotFound)
		return
	}
	item, err := h.ledger.Get(c.Request.Context(), middleware.Actor(c), h.itemType, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newItemResponse(item, h.ledger.Categories()))
}

// write serves PUT (full) and PATCH (partial)
func (h itemHandlers) write(full bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			respondError(c, domain.ErrNotFound)
			return
		}
		in, ok := h.bind(c)
		if !ok {
			return
		}
		actor := middleware.Actor(c)
		var item *domain.NetWorthItem
		var err error
		if full {
			item, err = h.ledger.Replace(c.Request.Context(), actor, id, in)
		} else {
			item, err = h.ledger.Update(c.Request.Context(), actor, id, in)
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newItemResponse(item, h.ledger.Categories()))
	}
}

func (h itemHandlers) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		respondError(c, domain.ErrNotFound)
		return
	}
	if err := h.ledger.Delete(c.Request.Context(), middleware.Actor(c), h.itemType, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h itemHandlers) bind(c *gin.Context) (service.ItemInput, bool) {
	var req ItemRequest
	if !bindJSON(c, &req) {
		return service.ItemInput{}, false
	}
	in, verr := req.toInput(h.itemType)
	if err := verr.OrNil(); err != nil {
		respondError(c, err)
		return service.ItemInput{}, false
	}
	return in, true
}

// registerItemRoutes mounts list/create and the per-id routes under path
func registerItemRoutes(g *gin.RouterGroup, path string, h itemHandlers) {
	g.GET(path, h.list)
	g.POST(path, h.create)
	g.GET(path+":id/", h.get)
	g.PUT(path+":id/", h.write(true))
	g.PATCH(path+":id/", h.write(false))
	g.DELETE(path+":id/", h.delete)
}

// SummaryHandler returns the net-worth summary of the caller's scope
func SummaryHandler(ledger *service.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := ledger.Summary(c.Request.Context(), middleware.Actor(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newSummaryResponse(s))
	}
}

// RatiosHandler returns the debt-to-asset ratio of the caller's scope
func RatiosHandler(ledger *service.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := ledger.Ratios(c.Request.Context(), middleware.Actor(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"debt_to_asset_ratio":     r.DebtToAssetRatio.StringFixed(2), // Percent
			"financial_health_status": r.HealthStatus,
			"net_worth":               r.NetWorth.StringFixed(domain.ValueDecimalPlaces),
		})
	}
}

// CategoriesHandler lists the accepted asset categories
func CategoriesHandler(ledger *service.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		out := make([]gin.H, 0, len(ledger.Categories()))
		for _, cat := range ledger.Categories() {
			out = append(out, gin.H{"code": cat.Code, "label": cat.Label})
		}
		c.JSON(http.StatusOK, gin.H{"categories": out})
	}
}

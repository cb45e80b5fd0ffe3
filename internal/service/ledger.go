package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"wealthwise/internal/domain"
	"wealthwise/internal/metrics"
	"wealthwise/internal/scope"
	"wealthwise/internal/store"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Field messages
const (
	msgRequired = "This field is required."
	msgBlank    = "This field may not be blank."
)

// ItemInput carries the client-supplied fields of a net-worth item. Nil
// pointers are fields the client did not send.
type ItemInput struct {
	ItemType      domain.ItemType
	Name          *string
	Value         *decimal.Decimal
	AssetCategory *string
	Description   *string
	GroupID       *uint // target group on create; honoured for superusers only
}

// Ledger is the scoped CRUD and summary service for net-worth items
type Ledger struct {
	store      *store.Store
	categories domain.CategorySet
}

// NewLedger creates the ledger. An empty category set uses the defaults.
func NewLedger(st *store.Store, categories domain.CategorySet) *Ledger {
	if len(categories) == 0 {
		categories = domain.DefaultCategories
	}
	return &Ledger{store: st, categories: categories}
}

// Categories returns the accepted asset categories
func (l *Ledger) Categories() domain.CategorySet {
	return l.categories
}

// Create validates in and stores a new item in the actor's group
func (l *Ledger) Create(ctx context.Context, actor *domain.User, in ItemInput) (*domain.NetWorthItem, error) {
	verr := requireFields(in)
	item := &domain.NetWorthItem{ItemType: in.ItemType}
	apply(item, in)
	verr.Merge(l.validate(item))

	groupID, gerr := l.targetGroup(ctx, actor, in.GroupID)
	verr.Merge(gerr)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	item.GroupID = groupID
	if err := l.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	l.logWrite("create", actor, item)
	return item, nil
}

// Get loads one in-scope item
func (l *Ledger) Get(ctx context.Context, actor *domain.User, itemType domain.ItemType, id uint) (*domain.NetWorthItem, error) {
	return l.store.GetItem(ctx, scope.Resolve(actor), itemType, id)
}

// Update applies the supplied fields of in to an in-scope item
func (l *Ledger) Update(ctx context.Context, actor *domain.User, id uint, in ItemInput) (*domain.NetWorthItem, error) {
	return l.mutate(ctx, actor, id, in, false)
}

// Replace overwrites every writable field of an in-scope item
func (l *Ledger) Replace(ctx context.Context, actor *domain.User, id uint, in ItemInput) (*domain.NetWorthItem, error) {
	return l.mutate(ctx, actor, id, in, true)
}

// mutate loads, validates and saves inside one transaction. The scope is
// resolved from the actor here and applied again by the UPDATE itself.
func (l *Ledger) mutate(ctx context.Context, actor *domain.User, id uint, in ItemInput, full bool) (*domain.NetWorthItem, error) {
	sc := scope.Resolve(actor)
	var item *domain.NetWorthItem
	err := l.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		item, err = tx.GetItem(ctx, sc, in.ItemType, id)
		if err != nil {
			return err
		}
		verr := &domain.ValidationError{}
		if full {
			verr = requireFields(in)
			if in.Description == nil {
				item.Description = ""
			}
			if in.AssetCategory == nil {
				item.AssetCategory = nil
			}
		}
		apply(item, in)
		verr.Merge(l.validate(item))
		if err := verr.OrNil(); err != nil {
			return err
		}
		return tx.SaveItem(ctx, sc, item)
	})
	if err != nil {
		return nil, err
	}
	op := "update"
	if full {
		op = "replace"
	}
	l.logWrite(op, actor, item)
	return item, nil
}

// Delete removes an in-scope item. A repeated delete yields domain.ErrNotFound.
func (l *Ledger) Delete(ctx context.Context, actor *domain.User, itemType domain.ItemType, id uint) error {
	if err := l.store.DeleteItem(ctx, scope.Resolve(actor), itemType, id); err != nil {
		return err
	}
	l.logWrite("delete", actor, &domain.NetWorthItem{ID: id, ItemType: itemType})
	return nil
}

// ItemPage is one page of a listing
type ItemPage struct {
	Items []domain.NetWorthItem
	Total int64
	Page  store.Page
}

// List returns one page of in-scope items of itemType
func (l *Ledger) List(ctx context.Context, actor *domain.User, itemType domain.ItemType, page store.Page) (*ItemPage, error) {
	items, total, err := l.store.ListItems(ctx, scope.Resolve(actor), itemType, page)
	if err != nil {
		return nil, err
	}
	return &ItemPage{Items: items, Total: total, Page: page}, nil
}

// CategorySubtotal is the asset total of one category
type CategorySubtotal struct {
	Category string
	Label    string
	Subtotal decimal.Decimal
	Count    int64
}

// Summary is the net-worth position of everything in scope
type Summary struct {
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	NetWorth         decimal.Decimal
	AssetsByCategory []CategorySubtotal
}

// Summary totals the in-scope items. Categories without assets are omitted.
func (l *Ledger) Summary(ctx context.Context, actor *domain.User) (*Summary, error) {
	rows, err := l.store.Subtotals(ctx, scope.Resolve(actor))
	if err != nil {
		return nil, err
	}
	s := &Summary{AssetsByCategory: []CategorySubtotal{}}
	byCategory := map[string]*CategorySubtotal{}
	for _, r := range rows {
		total := r.Total.Round(domain.ValueDecimalPlaces)
		if r.ItemType == domain.ItemLiability {
			s.TotalLiabilities = s.TotalLiabilities.Add(total)
			continue
		}
		s.TotalAssets = s.TotalAssets.Add(total)
		code := ""
		if r.AssetCategory != nil {
			code = *r.AssetCategory
		}
		c, ok := byCategory[code]
		if !ok {
			c = &CategorySubtotal{Category: code, Label: l.categories.Label(code)}
			byCategory[code] = c
		}
		c.Subtotal = c.Subtotal.Add(total)
		c.Count += r.Count
	}
	for _, c := range byCategory {
		s.AssetsByCategory = append(s.AssetsByCategory, *c)
	}
	sort.Slice(s.AssetsByCategory, func(i, j int) bool {
		return s.AssetsByCategory[i].Category < s.AssetsByCategory[j].Category
	})
	s.NetWorth = s.TotalAssets.Sub(s.TotalLiabilities)
	return s, nil
}

// Financial health thresholds on the debt-to-asset percentage
var healthBands = []struct {
	max    decimal.Decimal
	status string
}{
	{decimal.NewFromInt(30), "Excellent"},
	{decimal.NewFromInt(50), "Good"},
	{decimal.NewFromInt(70), "Fair"},
}

// Ratios describes the debt load of everything in scope
type Ratios struct {
	DebtToAssetRatio decimal.Decimal // percent, two decimal places
	HealthStatus     string
	NetWorth         decimal.Decimal
}

// Ratios computes the debt-to-asset ratio and a health label
func (l *Ledger) Ratios(ctx context.Context, actor *domain.User) (*Ratios, error) {
	s, err := l.Summary(ctx, actor)
	if err != nil {
		return nil, err
	}
	r := &Ratios{NetWorth: s.NetWorth, DebtToAssetRatio: decimal.Zero}
	if s.TotalAssets.IsZero() {
		r.HealthStatus = "No Assets"
		return r, nil
	}
	ratio := s.TotalLiabilities.Div(s.TotalAssets).Mul(decimal.NewFromInt(100))
	r.DebtToAssetRatio = ratio.Round(2)
	r.HealthStatus = "Needs Attention" // Above every band
	for _, band := range healthBands {
		if ratio.LessThanOrEqual(band.max) {
			r.HealthStatus = band.status
			break
		}
	}
	return r, nil
}

// targetGroup picks the group a new item is attached to
func (l *Ledger) targetGroup(ctx context.Context, actor *domain.User, requested *uint) (uint, *domain.ValidationError) {
	sc := scope.Resolve(actor)
	switch sc.Kind {
	case scope.SingleGroup:
		return sc.GroupID, nil
	case scope.AllGroups:
		if requested != nil {
			if _, err := l.store.GetGroup(ctx, *requested); err != nil {
				return 0, domain.NewValidationError("group_id", fmt.Sprintf("Invalid group %d.", *requested))
			}
			return *requested, nil
		}
		if actor.GroupID != nil { // Fall back to the superuser's own group
			return *actor.GroupID, nil
		}
		return 0, domain.NewValidationError("group_id", "Superusers without a group must choose a group_id.")
	default:
		return 0, domain.NewValidationError("group", "User must be assigned to a group.")
	}
}

// requireFields reports fields a full write must carry
func requireFields(in ItemInput) *domain.ValidationError {
	verr := &domain.ValidationError{}
	if in.Name == nil {
		verr.Add("name", msgRequired)
	}
	if in.Value == nil {
		verr.Add("value", msgRequired)
	}
	return verr
}

func apply(item *domain.NetWorthItem, in ItemInput) {
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Value != nil {
		item.Value = *in.Value
	}
	if in.AssetCategory != nil {
		c := strings.TrimSpace(*in.AssetCategory)
		if c == "" {
			item.AssetCategory = nil
		} else {
			item.AssetCategory = &c
		}
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
}

// validate checks every rule of a fully populated item
func (l *Ledger) validate(item *domain.NetWorthItem) *domain.ValidationError {
	verr := &domain.ValidationError{}
	if item.Name == "" {
		verr.Add("name", msgBlank)
	} else if len([]rune(item.Name)) > 255 {
		verr.Add("name", "Ensure this field has no more than 255 characters.")
	}
	verr.Merge(ValidateValue(item.Value))

	switch {
	case !item.ItemType.Valid():
		verr.Add("item_type", fmt.Sprintf("%q is not a valid choice.", item.ItemType))
	case item.IsAsset():
		switch {
		case item.AssetCategory == nil:
			verr.Add("asset_category", "Asset category is required for assets.")
		case !l.categories.Contains(*item.AssetCategory):
			verr.Add("asset_category", fmt.Sprintf("Invalid asset category. Must be one of: %s.", strings.Join(l.categories.Codes(), ", ")))
		}
	case item.AssetCategory != nil:
		verr.Add("asset_category", "Liabilities cannot have an asset category.")
	}
	return verr
}

// ValidateValue checks value against the decimal(15,2) column and the
// non-negative rule
func ValidateValue(v decimal.Decimal) *domain.ValidationError {
	verr := &domain.ValidationError{}
	if v.IsNegative() {
		verr.Add("value", "Ensure this value is greater than or equal to 0.")
		return verr
	}
	if !v.Equal(v.Truncate(domain.ValueDecimalPlaces)) {
		verr.Add("value", fmt.Sprintf("Ensure that there are no more than %d decimal places.", domain.ValueDecimalPlaces))
	}
	whole := domain.ValueMaxDigits - domain.ValueDecimalPlaces
	if v.Truncate(0).GreaterThanOrEqual(decimal.New(1, int32(whole))) {
		verr.Add("value", fmt.Sprintf("Ensure that there are no more than %d digits before the decimal point.", whole))
	}
	return verr
}

func (l *Ledger) logWrite(op string, actor *domain.User, item *domain.NetWorthItem) {
	metrics.LedgerWrites.WithLabelValues(op, string(item.ItemType)).Inc()
	logrus.WithFields(logrus.Fields{
		"operation": op,
		"item_id":   item.ID,
		"item_type": item.ItemType,
		"group_id":  item.GroupID,
		"user_id":   actor.ID,
	}).Info("Net-worth item written")
}

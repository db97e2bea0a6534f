// Package app wires the storefront client core: session, cart, the API
// client, and shared search state. Pages receive an *App and never
// duplicate its logic.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"asdenim/internal/api"
	"asdenim/internal/cart"
	"asdenim/internal/kv"
	"asdenim/internal/session"
	"asdenim/pkg/domain"
)

// Navigator performs imperative route changes. It is injected so the
// auth-failure redirect can be asserted in tests without a real router.
type Navigator interface {
	NavigateTo(path string)
}

// Config holds the container's dependencies.
type Config struct {
	// BaseURL of the commerce API.
	BaseURL string
	// Store persists the session token and cart between runs.
	Store kv.Store
	// Navigator handles redirects on logout and auth failure.
	Navigator Navigator
	// LoginPath is where the user lands after logout or a rejected
	// session. Defaults to /login.
	LoginPath string
	// HTTPClient overrides the default transport, mainly for tests.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// App is the process-wide session and cart state container.
type App struct {
	logger  *slog.Logger
	session *session.Manager
	cart    *cart.Store
	api     *api.Client
	nav     Navigator

	loginPath string

	mu         sync.RWMutex
	search     string
	showSearch bool
	subs       []func()
}

// New constructs the container. Call Initialize to rehydrate persisted
// state before first use.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("app: persistent store required")
	}
	if cfg.Navigator == nil {
		return nil, fmt.Errorf("app: navigator required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loginPath := cfg.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}

	a := &App{
		logger:    logger,
		session:   session.NewManager(cfg.Store),
		nav:       cfg.Navigator,
		loginPath: loginPath,
	}
	client, err := api.NewClient(api.Config{
		BaseURL:       cfg.BaseURL,
		Tokens:        a.session,
		HTTPClient:    cfg.HTTPClient,
		OnAuthFailure: a.handleAuthFailure,
	})
	if err != nil {
		return nil, err
	}
	a.api = client
	a.cart = cart.NewStore(cfg.Store, client)
	return a, nil
}

// Initialize rehydrates the session and cart from the persistent store. A
// persisted token is trusted until the first protected request says
// otherwise.
func (a *App) Initialize(ctx context.Context) error {
	if err := a.session.Initialize(ctx); err != nil {
		return err
	}
	if err := a.cart.Load(ctx); err != nil {
		return err
	}
	a.logger.Info("storefront state restored",
		"authenticated", a.session.Authenticated(),
		"cart_lines", len(a.cart.Lines()),
		"cart_count", a.cart.Count())
	return nil
}

// API exposes the typed endpoint client all data-consuming views share.
func (a *App) API() *api.Client { return a.api }

// Token returns the current bearer token, empty when unauthenticated.
func (a *App) Token() string { return a.session.Token() }

// Authenticated reports whether a session token is present.
func (a *App) Authenticated() bool { return a.session.Authenticated() }

// SetToken persists a new session token, e.g. after login.
func (a *App) SetToken(ctx context.Context, token string) error {
	if err := a.session.SetToken(ctx, token); err != nil {
		return err
	}
	a.notify()
	return nil
}

// Login authenticates and stores the resulting token.
func (a *App) Login(ctx context.Context, email, password string) error {
	token, err := a.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return a.SetToken(ctx, token)
}

// Register creates an account; the caller logs in afterwards.
func (a *App) Register(ctx context.Context, name, email, password, confirmation string) error {
	return a.api.Register(ctx, name, email, password, confirmation)
}

// ResetPassword completes a password reset with the emailed token.
func (a *App) ResetPassword(ctx context.Context, email, token, password, confirmation string) error {
	return a.api.ResetPassword(ctx, email, token, password, confirmation)
}

// Logout clears the session and the cart (the cart belongs to the session,
// not the device) and returns the user to a public page.
func (a *App) Logout(ctx context.Context) error {
	if err := a.clearSessionState(ctx); err != nil {
		return err
	}
	a.nav.NavigateTo(a.loginPath)
	return nil
}

// handleAuthFailure runs when a protected request comes back 401/403: the
// session is gone server-side, so drop local state and send the user to
// the login page. The API client already suppresses duplicate surfacing.
func (a *App) handleAuthFailure(ctx context.Context, status int) {
	a.logger.Warn("session rejected by server", "status", status)
	if err := a.clearSessionState(ctx); err != nil {
		a.logger.Error("clearing session state", "err", err)
	}
	a.nav.NavigateTo(a.loginPath)
}

func (a *App) clearSessionState(ctx context.Context) error {
	if err := a.session.Clear(ctx); err != nil {
		return err
	}
	if err := a.cart.Clear(ctx); err != nil {
		return err
	}
	a.notify()
	return nil
}

// AddToCart inserts or merges a cart line for the product, resolving a
// snapshot when the product is new to the cart.
func (a *App) AddToCart(ctx context.Context, productID, size string) error {
	line, err := a.cart.Add(ctx, productID, size)
	if err != nil {
		return err
	}
	a.logger.Debug("cart add", "product", productID, "size", size, "qty", line.Qty)
	a.notify()
	return nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (a *App) UpdateQuantity(ctx context.Context, lineID string, qty int) error {
	if err := a.cart.UpdateQuantity(ctx, lineID, qty); err != nil {
		return err
	}
	a.notify()
	return nil
}

// RemoveFromCart deletes a line.
func (a *App) RemoveFromCart(ctx context.Context, lineID string) error {
	if err := a.cart.Remove(ctx, lineID); err != nil {
		return err
	}
	a.notify()
	return nil
}

// ClearCart empties the cart, e.g. after a successful payment.
func (a *App) ClearCart(ctx context.Context) error {
	if err := a.cart.Clear(ctx); err != nil {
		return err
	}
	a.notify()
	return nil
}

// CartLines returns a copy of the cart contents.
func (a *App) CartLines() []cart.Line { return a.cart.Lines() }

// CartCount is the badge number: total quantity across lines.
func (a *App) CartCount() int { return a.cart.Count() }

// CartAmount is the cart subtotal in rupiah.
func (a *App) CartAmount() int64 { return a.cart.Amount() }

// CartWeight is the total weight in grams, used for shipping quotes.
func (a *App) CartWeight() int { return a.cart.Weight() }

// RefreshCart opportunistically re-fetches product snapshots.
func (a *App) RefreshCart(ctx context.Context) error {
	if err := a.cart.RefreshSnapshots(ctx); err != nil {
		return err
	}
	a.notify()
	return nil
}

// Checkout requests a payment session for the current cart and shipping
// choice. The cart is cleared by the payment flow on success, not here.
func (a *App) Checkout(ctx context.Context, addressID int64, option domain.ShippingOption) (string, error) {
	lines := a.cart.Lines()
	if len(lines) == 0 {
		return "", fmt.Errorf("app: checkout with empty cart")
	}
	items := make([]api.CheckoutItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, api.CheckoutItem{ProductID: line.Product.ID, Qty: line.Qty})
	}
	return a.api.SnapToken(ctx, api.CheckoutRequest{
		CartItems:      items,
		AddressID:      addressID,
		ShippingOption: option,
	})
}

// Search returns the shared search keyword.
func (a *App) Search() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.search
}

// SetSearch updates the shared search keyword.
func (a *App) SetSearch(keyword string) {
	a.mu.Lock()
	a.search = keyword
	a.mu.Unlock()
	a.notify()
}

// ShowSearch reports whether the search affordance is visible.
func (a *App) ShowSearch() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.showSearch
}

// SetShowSearch toggles the search affordance.
func (a *App) SetShowSearch(visible bool) {
	a.mu.Lock()
	a.showSearch = visible
	a.mu.Unlock()
	a.notify()
}

// Subscribe registers a callback invoked after every state change, the
// hook dependent views re-render from.
func (a *App) Subscribe(fn func()) {
	a.mu.Lock()
	a.subs = append(a.subs, fn)
	a.mu.Unlock()
}

func (a *App) notify() {
	a.mu.RLock()
	subs := make([]func(), len(a.subs))
	copy(subs, a.subs)
	a.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

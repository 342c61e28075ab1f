package facebook

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"

	"github.com/goccy/go-json"
)

const defaultGraphURL = "https://graph.facebook.com"

// HashSHA256 returns a hex-encoded SHA256 hash of the normalized input string.
func HashSHA256(input string) string {
	if input == "" {
		return ""
	}
	normalized := strings.ToLower(strings.TrimSpace(input))
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}

type Options struct {
	PixelID     string
	AccessToken string
	APIVersion  string
	// BaseURL defaults to the Graph API host.
	BaseURL    string
	HTTPClient *http.Client
	// Backoff between retries; zero means one second per attempt.
	Backoff time.Duration
}

// CAPIClient sends server-side events to the Facebook Conversions API.
type CAPIClient struct {
	pixelID     string
	accessToken string
	apiVersion  string
	baseURL     string
	httpClient  *http.Client
	backoff     time.Duration
}

// NewCAPIClient returns nil when the pixel is not configured; a nil client is a no-op.
func NewCAPIClient(opts Options) *CAPIClient {
	if opts.PixelID == "" || opts.AccessToken == "" {
		logger.Info().Msg("[CAPI] Facebook Pixel ID or Access Token not configured. CAPI disabled.")
		return nil
	}
	c := &CAPIClient{
		pixelID:     opts.PixelID,
		accessToken: opts.AccessToken,
		apiVersion:  opts.APIVersion,
		baseURL:     strings.TrimSuffix(opts.BaseURL, "/"),
		httpClient:  opts.HTTPClient,
		backoff:     opts.Backoff,
	}
	if c.baseURL == "" {
		c.baseURL = defaultGraphURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if c.backoff == 0 {
		c.backoff = time.Second
	}
	return c
}

type UserData struct {
	Email      string `json:"em,omitempty"` // SHA256
	Phone      string `json:"ph,omitempty"` // SHA256
	FirstName  string `json:"fn,omitempty"` // SHA256
	LastName   string `json:"ln,omitempty"` // SHA256
	City       string `json:"ct,omitempty"` // SHA256
	Zip        string `json:"zp,omitempty"` // SHA256
	Country    string `json:"country,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
}

type CustomData struct {
	Currency   string        `json:"currency,omitempty"`
	Value      float64       `json:"value,omitempty"`
	ContentIDs []string      `json:"content_ids,omitempty"`
	Contents   []ContentItem `json:"contents,omitempty"`
	NumItems   int           `json:"num_items,omitempty"`
	OrderID    string        `json:"order_id,omitempty"`
}

type ContentItem struct {
	ID       string  `json:"id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"item_price,omitempty"`
}

type Event struct {
	EventName    string     `json:"event_name"`
	EventTime    int64      `json:"event_time"`
	ActionSource string     `json:"action_source"`
	UserData     UserData   `json:"user_data"`
	CustomData   CustomData `json:"custom_data,omitempty"`
	EventID      string     `json:"event_id,omitempty"` // dedup with browser events
}

type EventPayload struct {
	Data []Event `json:"data"`
}

// SendEvent posts one event, retrying transport errors, 429 and 5xx up to three times.
func (c *CAPIClient) SendEvent(ctx context.Context, event Event) error {
	if c == nil {
		return nil
	}

	jsonData, err := json.Marshal(EventPayload{Data: []Event{event}})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/%s/events?access_token=%s",
		c.baseURL, c.apiVersion, c.pixelID, url.QueryEscape(c.accessToken))

	var lastErr error
	for i := 0; i < 3; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i) * c.backoff):
			}
		}

		retry, err := c.post(ctx, endpoint, jsonData)
		if err == nil {
			logger.WithContext(ctx).Debug().Str("event", event.EventName).Msg("[CAPI] Event sent")
			return nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return lastErr
}

func (c *CAPIClient) post(ctx context.Context, endpoint string, body []byte) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("CAPI request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return false, nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	err = fmt.Errorf("CAPI error (status %d): %s", resp.StatusCode, string(msg))
	if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return false, err
	}
	return true, err
}

// PurchaseEvent builds the Purchase event for a placed order. PII is hashed.
func PurchaseEvent(order domain.Order, currency string) Event {
	items := make([]ContentItem, len(order.Items))
	for i, it := range order.Items {
		id := it.ProductID
		if it.VariantID != "" {
			id = it.ProductID + ":" + it.VariantID
		}
		items[i] = ContentItem{ID: id, Quantity: it.Quantity, Price: it.Price}
	}

	first, last := splitName(order.CustomerName)
	user := UserData{
		Email:      HashSHA256(order.CustomerEmail),
		FirstName:  HashSHA256(first),
		LastName:   HashSHA256(last),
		ExternalID: HashSHA256(order.CustomerEmail),
	}
	if sd := order.ShippingDetails; sd != nil {
		user.Phone = HashSHA256(sd.Phone)
		user.City = HashSHA256(sd.City)
		user.Zip = HashSHA256(sd.PostalCode)
		user.Country = strings.ToLower(sd.Country)
	}

	return Event{
		EventName:    "Purchase",
		EventTime:    order.Date.Unix(),
		ActionSource: "website",
		UserData:     user,
		CustomData: CustomData{
			Currency:   currency,
			Value:      order.Total,
			OrderID:    order.ID,
			Contents:   items,
			NumItems:   len(items),
			ContentIDs: extractContentIDs(items),
		},
		EventID: order.ID,
	}
}

// TrackPurchase sends the Purchase event in the background so checkout never waits on it.
func (c *CAPIClient) TrackPurchase(ctx context.Context, order domain.Order, currency string) {
	if c == nil {
		return
	}
	event := PurchaseEvent(order, currency)
	l := logger.WithContext(ctx)
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := c.SendEvent(sendCtx, event); err != nil {
			l.Warn().Err(err).Str("order_id", order.ID).Msg("[CAPI] Failed to send Purchase event")
		}
	}()
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

func extractContentIDs(items []ContentItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

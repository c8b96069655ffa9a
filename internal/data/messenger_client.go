package data

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/upseller/upseller/internal/biz/domain"
	"github.com/upseller/upseller/internal/biz/repo"
)

// messengerClient implements the messenger repository over HTTP, used by
// the master service to call the messenger service
type messengerClient struct {
	http *resty.Client
}

// NewMessengerClient creates a messenger service client
func NewMessengerClient(baseURL string) repo.MessengerRepo {
	return &messengerClient{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(45 * time.Second),
	}
}

// Classify maps a buyer message to an intent classification
func (c *messengerClient) Classify(ctx context.Context, msg domain.BuyerMessage) (domain.Classification, error) {
	var out domain.Classification
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(msg).
		SetResult(&out).
		Post("/classify")
	if err != nil {
		return domain.Classification{}, fmt.Errorf("classify request: %w", err)
	}
	if resp.IsError() {
		return domain.Classification{}, fmt.Errorf("classify failed: %s", resp.Status())
	}
	return out, nil
}

type negotiateRequest struct {
	Message        domain.BuyerMessage   `json:"message"`
	Classification domain.Classification `json:"classification"`
	SellerContext  domain.SellerContext  `json:"sellerContext"`
	History        []domain.BuyerMessage `json:"history,omitempty"`
}

// Negotiate produces a draft reply for a classified message
func (c *messengerClient) Negotiate(ctx context.Context, msg domain.BuyerMessage, classification domain.Classification, seller domain.SellerContext, history []domain.BuyerMessage) (domain.DraftReply, error) {
	var out domain.DraftReply
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(negotiateRequest{
			Message:        msg,
			Classification: classification,
			SellerContext:  seller,
			History:        history,
		}).
		SetResult(&out).
		Post("/negotiate")
	if err != nil {
		return domain.DraftReply{}, fmt.Errorf("negotiate request: %w", err)
	}
	if resp.IsError() {
		return domain.DraftReply{}, fmt.Errorf("negotiate failed: %s", resp.Status())
	}
	return out, nil
}

type sendDraftRequest struct {
	Message domain.BuyerMessage `json:"message"`
	Draft   domain.DraftReply   `json:"draft"`
	Mode    domain.Mode         `json:"mode"`
}

type sendDraftResponse struct {
	Sent    bool `json:"sent"`
	Drafted bool `json:"drafted"`
}

// SendDraft dispatches or stages a draft according to mode
func (c *messengerClient) SendDraft(ctx context.Context, msg domain.BuyerMessage, draft domain.DraftReply, mode domain.Mode) (bool, error) {
	var out sendDraftResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sendDraftRequest{Message: msg, Draft: draft, Mode: mode}).
		SetResult(&out).
		Post("/send-draft")
	if err != nil {
		return false, fmt.Errorf("send-draft request: %w", err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("send-draft failed: %s", resp.Status())
	}
	return out.Sent, nil
}

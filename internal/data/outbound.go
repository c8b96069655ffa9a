package data

import (
	"context"
	"fmt"

	"github.com/upseller/upseller/internal/biz/repo"
	"github.com/upseller/upseller/marketplace"
)

// outboundRepo implements the outbound surface on the marketplace
// automation stubs
type outboundRepo struct {
	automation *marketplace.Automation
}

// NewOutboundRepo creates an outbound repository
func NewOutboundRepo(automation *marketplace.Automation) repo.OutboundRepo {
	return &outboundRepo{automation: automation}
}

// SendReply sends a reply into the buyer's thread
func (r *outboundRepo) SendReply(ctx context.Context, listingID, buyerID, text string) error {
	if err := r.openThread(ctx, listingID, buyerID); err != nil {
		return err
	}
	if err := r.automation.SendReply(ctx, text); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	return nil
}

// StageDraft types a draft into the reply box without sending
func (r *outboundRepo) StageDraft(ctx context.Context, listingID, buyerID, text string) error {
	if err := r.openThread(ctx, listingID, buyerID); err != nil {
		return err
	}
	if err := r.automation.TypeDraft(ctx, text); err != nil {
		return fmt.Errorf("stage draft: %w", err)
	}
	return nil
}

func (r *outboundRepo) openThread(ctx context.Context, listingID, buyerID string) error {
	if err := r.automation.EnsureSession(ctx); err != nil {
		return fmt.Errorf("ensure session: %w", err)
	}
	if err := r.automation.OpenListingThread(ctx, listingID, buyerID); err != nil {
		return fmt.Errorf("open thread: %w", err)
	}
	return nil
}

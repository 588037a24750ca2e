// Package api contains the HTTP API surface of the gateway: the blog
// content routes, the contract read routes, and the access status/unlock
// routes backed by the gate.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/golang/glog"
	"github.com/gorilla/mux"

	"github.com/dgca/paywalled-blog/pkg/access"
	"github.com/dgca/paywalled-blog/pkg/model"
)

// NewHandlersParams are the params to initialize the API Handlers
type NewHandlersParams struct {
	Directory model.ContentDirectory
	Oracle    model.EntitlementOracle
	Gate      *access.Gate
	Receipts  model.PurchaseReceiptPersister
}

// NewHandlers is a convenience function to init the API Handlers
func NewHandlers(params *NewHandlersParams) *Handlers {
	return &Handlers{
		directory: params.Directory,
		oracle:    params.Oracle,
		gate:      params.Gate,
		receipts:  params.Receipts,
	}
}

// Handlers holds the HTTP handlers of the gateway API
type Handlers struct {
	directory model.ContentDirectory
	oracle    model.EntitlementOracle
	gate      *access.Gate
	receipts  model.PurchaseReceiptPersister
}

// postResponse is the JSON shape of a blog post. Body is only populated
// when the gate reports the reader unlocked.
type postResponse struct {
	ID      uint64 `json:"id"`
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Excerpt string `json:"excerpt"`
	Author  string `json:"author"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
	Body    string `json:"body,omitempty"`
}

type statusResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ListPosts handles GET /api/blog. Returns post metadata only, newest
// first; bodies are never included in listings.
func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.directory.AllPosts()
	if err != nil {
		log.Errorf("Error listing posts: err: %v", err)
		writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "Failed to list posts"})
		return
	}
	responses := make([]*postResponse, len(posts))
	for index, post := range posts {
		responses[index] = &postResponse{
			ID:      post.ID(),
			Slug:    post.Slug(),
			Title:   post.Title(),
			Date:    post.Date(),
			Excerpt: post.Excerpt(),
			Author:  post.Author(),
		}
	}
	writeJSON(w, http.StatusOK, responses)
}

// GetPost handles GET /api/blog/{slug}. The optional account query param
// identifies the reader; the full body is included only when the gate
// reports StatusUnlocked for the (account, post) pair. Every other status,
// including every failure, withholds the body.
func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	post, err := h.directory.PostBySlug(slug)
	if err != nil {
		if err == model.ErrDirectoryNoResults {
			writeJSON(w, http.StatusNotFound, &errorResponse{Error: "Post not found"})
			return
		}
		log.Errorf("Error fetching post %v: err: %v", slug, err)
		writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "Failed to fetch post"})
		return
	}

	account := accountFromQuery(r)
	report := h.gate.Status(r.Context(), account, post.ContentRef())

	response := &postResponse{
		ID:      post.ID(),
		Slug:    post.Slug(),
		Title:   post.Title(),
		Date:    post.Date(),
		Excerpt: post.Excerpt(),
		Author:  post.Author(),
		Status:  report.Status.String(),
		Reason:  string(report.Reason),
	}
	if report.Unlocked() {
		response.Body = post.Body()
	}
	writeJSON(w, http.StatusOK, response)
}

// ContentPrice handles GET /api/contract/contentPrice
func (h *Handlers) ContentPrice(w http.ResponseWriter, r *http.Request) {
	contentID, err := contentIDFromQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &errorResponse{Error: "Missing or invalid contentId parameter"})
		return
	}
	price, err := h.oracle.PriceOf(r.Context(), contentID)
	if err != nil {
		log.Errorf("Error fetching content price: err: %v", err)
		writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "Failed to fetch content price"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"price": price.String()})
}

// HasAccess handles GET /api/contract/hasAccess
func (h *Handlers) HasAccess(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if !common.IsHexAddress(address) {
		writeJSON(w, http.StatusBadRequest, &errorResponse{Error: "Missing address or contentId parameter"})
		return
	}
	contentID, err := contentIDFromQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &errorResponse{Error: "Missing address or contentId parameter"})
		return
	}
	hasAccess, err := h.oracle.HasAccess(r.Context(), common.HexToAddress(address), contentID)
	if err != nil {
		log.Errorf("Error checking content access: err: %v", err)
		writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "Failed to check content access"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"hasAccess": hasAccess})
}

// AccessStatus handles GET /api/access/status
func (h *Handlers) AccessStatus(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	post, err := h.directory.PostBySlug(slug)
	if err != nil {
		writeJSON(w, http.StatusNotFound, &errorResponse{Error: "Post not found"})
		return
	}
	account := accountFromQuery(r)
	report := h.gate.Status(r.Context(), account, post.ContentRef())
	writeJSON(w, http.StatusOK, &statusResponse{
		Status: report.Status.String(),
		Reason: string(report.Reason),
	})
}

// unlockRequest is the JSON body for RequestUnlock
type unlockRequest struct {
	Address string `json:"address"`
	Slug    string `json:"slug"`
}

// RequestUnlock handles POST /api/access/unlock. A second request while an
// attempt is in flight is rejected with 409 rather than queued.
func (h *Handlers) RequestUnlock(w http.ResponseWriter, r *http.Request) {
	request := &unlockRequest{}
	err := json.NewDecoder(r.Body).Decode(request)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, &errorResponse{Error: "Invalid request body"})
		return
	}
	post, err := h.directory.PostBySlug(request.Slug)
	if err != nil {
		writeJSON(w, http.StatusNotFound, &errorResponse{Error: "Post not found"})
		return
	}

	account := model.NoAccount()
	if common.IsHexAddress(request.Address) {
		account = model.NewAccount(common.HexToAddress(request.Address))
	}

	// The unlock waits on ledger finality, which outlives most request
	// deadlines; detach it from the request context.
	report, err := h.gate.RequestUnlock(context.Background(), account, post.ContentRef())
	if err == access.ErrUnlockInFlight {
		writeJSON(w, http.StatusConflict, &errorResponse{Error: "Unlock already in flight"})
		return
	}
	writeJSON(w, http.StatusOK, &statusResponse{
		Status: report.Status.String(),
		Reason: string(report.Reason),
	})
}

// receiptResponse is the JSON shape of a purchase receipt
type receiptResponse struct {
	Account     string `json:"account"`
	ContentID   uint64 `json:"contentId"`
	Slug        string `json:"slug"`
	Price       string `json:"price"`
	Outcome     string `json:"outcome"`
	TxHash      string `json:"txHash"`
	BlockNumber uint64 `json:"blockNumber"`
	SubmittedTs int64  `json:"submittedTs"`
	ResolvedTs  int64  `json:"resolvedTs"`
}

// Receipts handles GET /api/receipts. Returns the audit log of finalized
// payment attempts for an account, newest first.
func (h *Handlers) Receipts(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if !common.IsHexAddress(address) {
		writeJSON(w, http.StatusBadRequest, &errorResponse{Error: "Missing or invalid address parameter"})
		return
	}
	receipts, err := h.receipts.PurchaseReceiptsByAccount(common.HexToAddress(address))
	if err != nil && err != model.ErrPersisterNoResults {
		log.Errorf("Error fetching receipts: err: %v", err)
		writeJSON(w, http.StatusInternalServerError, &errorResponse{Error: "Failed to fetch receipts"})
		return
	}
	responses := make([]*receiptResponse, len(receipts))
	for index, receipt := range receipts {
		price := ""
		if receipt.Price() != nil {
			price = receipt.Price().String()
		}
		responses[index] = &receiptResponse{
			Account:     receipt.AccountAddress().Hex(),
			ContentID:   receipt.ContentID(),
			Slug:        receipt.Slug(),
			Price:       price,
			Outcome:     receipt.Outcome().String(),
			TxHash:      receipt.TxHash().Hex(),
			BlockNumber: receipt.BlockNumber(),
			SubmittedTs: receipt.SubmittedTs(),
			ResolvedTs:  receipt.ResolvedTs(),
		}
	}
	writeJSON(w, http.StatusOK, responses)
}

func accountFromQuery(r *http.Request) model.Account {
	address := r.URL.Query().Get("account")
	if !common.IsHexAddress(address) {
		return model.NoAccount()
	}
	return model.NewAccount(common.HexToAddress(address))
}

func contentIDFromQuery(r *http.Request) (uint64, error) {
	return strconv.ParseUint(r.URL.Query().Get("contentId"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		log.Errorf("Error writing JSON response: err: %v", err)
	}
}

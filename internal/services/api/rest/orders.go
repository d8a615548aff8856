package rest

import (
	"net/http"

	"github.com/louisbranch/xplorehub/internal/services/api/order"
	"github.com/louisbranch/xplorehub/internal/services/shared/httpx"
)

type changeStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	o, err := h.svc.CreateOrder(r.Context(), actorFrom(r.Context()), req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	key := "core.order_confirmed"
	if o.Status == order.StatusPending {
		key = "core.order_pending"
	}
	h.writeJSON(w, http.StatusCreated, createOrderResponse{
		Message:             message(r, key),
		OrderID:             o.ID,
		RegisteredAttendees: toAttendeesJSON(o.Attendees),
		Status:              string(o.Status),
		TotalAmount:         o.Total(),
	})
}

func (h *Handler) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListMyOrders(r.Context(), actorFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]orderJSON, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderJSON(o))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.GetOrderForEvent(r.Context(), actorFrom(r.Context()), r.PathValue("eventId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toOrderJSON(o))
}

func (h *Handler) handleChangeOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req changeStatusRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	o, err := h.svc.ChangeOrderStatus(r.Context(), actorFrom(r.Context()), r.PathValue("eventId"), req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toOrderJSON(o))
}

func (h *Handler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.CancelOrder(r.Context(), actorFrom(r.Context()), r.PathValue("eventId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := toOrderJSON(o)
	h.writeJSON(w, http.StatusOK, messageResponse{Message: message(r, "core.order_canceled"), Order: &out})
}

package http

import (
	"encoding/json"
	"encoding/xml"
	"log/slog"
	"net/http"

	"mensa/internal/core"
	"mensa/internal/views"
)

// twimlResponse is the reply envelope the messaging gateway expects. The
// reply text is delivered back to the sender as-is.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// handleWebhook ingests one raw order message from the gateway. The reply is
// always 200 with a TwiML body; ingestion problems are reported to the
// sender in the message text, not as HTTP errors.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}
	raw := r.PostFormValue("Body")

	reply, err := s.ingestor.IngestMessage(r.Context(), raw)
	if err != nil {
		slog.WarnContext(r.Context(), "Order message rejected", "error", err)
	}
	writeTwiML(w, reply)
}

func writeTwiML(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	_ = xml.NewEncoder(w).Encode(twimlResponse{Message: message})
}

type orderResponse struct {
	ID         int64    `json:"id"`
	CustomerID string   `json:"customer_id"`
	Name       string   `json:"name"`
	Location   string   `json:"location"`
	Date       string   `json:"date"`
	Items      []string `json:"items"`
	Quantities []int    `json:"quantities"`
	Prices     []string `json:"prices"`
	Session    string   `json:"session"`
}

type kitchenResponse struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

type packingResponse struct {
	Location   string `json:"location"`
	Name       string `json:"name"`
	CustomerID string `json:"customer_id"`
	Order      string `json:"order"`
}

type billingResponse struct {
	CustomerID   string `json:"customer_id"`
	Name         string `json:"name"`
	Date         string `json:"date"`
	Item         string `json:"item"`
	Price        string `json:"price"`
	MonthlyTotal string `json:"monthly_total"`
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.queries.Orders(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list orders", "error", err)
		http.Error(w, "failed to list orders", http.StatusInternalServerError)
		return
	}

	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		prices := make([]string, 0, len(o.PriceCents))
		for _, cents := range o.PriceCents {
			prices = append(prices, core.FormatCents(cents))
		}
		resp = append(resp, orderResponse{
			ID:         o.ID,
			CustomerID: o.CustomerID,
			Name:       o.Name,
			Location:   o.Location,
			Date:       o.Date.Format(core.DateLayout),
			Items:      o.Items,
			Quantities: o.Quantities,
			Prices:     prices,
			Session:    o.Session.String(),
		})
	}
	writeJSON(w, r, resp)
}

func (s *Server) handleKitchen(w http.ResponseWriter, r *http.Request) {
	rows, err := s.queries.Kitchen(r.PathValue("session"))
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read kitchen view", "error", err)
		http.Error(w, "failed to read kitchen view", http.StatusInternalServerError)
		return
	}

	resp := make([]kitchenResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, kitchenResponse{Item: row.Item, Quantity: row.Quantity})
	}
	writeJSON(w, r, resp)
}

func (s *Server) handlePacking(w http.ResponseWriter, r *http.Request) {
	rows, err := s.queries.Packing(r.PathValue("session"))
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read packing view", "error", err)
		http.Error(w, "failed to read packing view", http.StatusInternalServerError)
		return
	}

	resp := make([]packingResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, packingResponse{
			Location:   row.Location,
			Name:       row.Name,
			CustomerID: row.CustomerID,
			Order:      row.Summary,
		})
	}
	writeJSON(w, r, resp)
}

func (s *Server) handleBilling(w http.ResponseWriter, r *http.Request) {
	rows, err := s.queries.Billing()
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to read billing ledger", "error", err)
		http.Error(w, "failed to read billing ledger", http.StatusInternalServerError)
		return
	}

	resp := make([]billingResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, billingResponse{
			CustomerID:   row.CustomerID,
			Name:         row.Name,
			Date:         row.Date,
			Item:         row.Item,
			Price:        core.FormatCents(row.PriceCents),
			MonthlyTotal: formatMonthlyTotal(row),
		})
	}
	writeJSON(w, r, resp)
}

// formatMonthlyTotal keeps the blank-column convention of the billing file:
// rows from other months carry no running total.
func formatMonthlyTotal(row views.BillingRow) string {
	if !row.HasMonthlyTotal {
		return ""
	}
	return core.FormatCents(row.MonthlyTotalCents)
}

func writeJSON(w http.ResponseWriter, r *http.Request, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response", "error", err)
	}
}

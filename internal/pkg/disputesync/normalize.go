package disputesync

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chargeward/chargeward/app/models"
)

// normalizeDispute maps one raw dispute edge to the canonical record shape.
// Missing optional fields map to nil, never to an error.
func normalizeDispute(edge DisputeEdge) models.Dispute {
	node := edge.Node

	d := models.Dispute{
		RemoteID:       remoteIDFromGID(node.ID),
		RawPayloadJSON: string(edge.Raw),
	}
	if d.RemoteID == "" {
		d.RemoteID = fallbackRemoteID()
	}

	if node.Order != nil {
		if id := remoteIDFromGID(node.Order.ID); id != "" {
			d.OrderID = &id
		}
		if node.Order.Name != "" {
			name := node.Order.Name
			d.OrderName = &name
		}
		if email := node.Order.customerEmail(); email != "" {
			d.CustomerEmail = &email
		}
	}

	if node.Status != "" {
		status := strings.ToLower(node.Status)
		d.Status = &status
	}
	if node.ReasonDetails != nil && node.ReasonDetails.Reason != "" {
		reason := node.ReasonDetails.Reason
		d.Reason = &reason
	}
	if node.Type != "" {
		t := node.Type
		d.ChargebackType = &t
	}

	d.Amount, d.CurrencyCode = parseMoney(node.Amount)
	d.EvidenceDueBy = parseTimestamp(node.EvidenceDueBy)
	d.EvidenceSubmitted = node.EvidenceSentOn != ""

	return d
}

// normalizeChargeback maps one chargeback transaction to the same canonical
// shape. The remote id gets the chargeback- prefix so these rows never
// collide with a true dispute sharing the trailing id segment. Chargebacks
// never carry an evidence-due date; status defaults to "open" when the
// transaction has none, since chargebacks predate dispute-status assignment.
func normalizeChargeback(edge ChargebackEdge) models.Dispute {
	tx := edge.Transaction
	order := edge.Order

	d := models.Dispute{}
	if id := remoteIDFromGID(tx.ID); id != "" {
		d.RemoteID = models.ChargebackIDPrefix + id
	} else {
		d.RemoteID = models.ChargebackIDPrefix + fallbackRemoteID()
	}

	if id := remoteIDFromGID(order.ID); id != "" {
		d.OrderID = &id
	}
	if order.Name != "" {
		name := order.Name
		d.OrderName = &name
	}
	if email := order.customerEmail(); email != "" {
		d.CustomerEmail = &email
	}

	status := "open"
	if tx.Status != "" {
		status = strings.ToLower(tx.Status)
	}
	d.Status = &status

	kind := strings.ToUpper(tx.Kind)
	d.ChargebackType = &kind

	if tx.AmountSet != nil {
		d.Amount, d.CurrencyCode = parseMoney(tx.AmountSet.ShopMoney)
	}

	raw, err := json.Marshal(map[string]interface{}{
		"transaction": tx,
		"order":       order,
	})
	if err == nil {
		d.RawPayloadJSON = string(raw)
	}

	return d
}

// remoteIDFromGID strips everything before the last "/" of a global id
// (gid://shopify/ShopifyPaymentsDispute/123 → 123). Plain ids pass through.
func remoteIDFromGID(gid string) string {
	gid = strings.TrimSpace(gid)
	if gid == "" {
		return ""
	}
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		return gid[i+1:]
	}
	return gid
}

// fallbackRemoteID synthesizes an id for records the API returned without
// one, so the upsert key is never empty. Wall-clock derived ids are not
// stable across re-runs and may duplicate rows on retry.
func fallbackRemoteID() string {
	return fmt.Sprintf("dispute-%d", time.Now().UnixMilli())
}

func parseMoney(m *moneyRef) (*float64, *string) {
	if m == nil {
		return nil, nil
	}
	var amount *float64
	if v, err := strconv.ParseFloat(strings.TrimSpace(m.Amount), 64); err == nil {
		amount = &v
	}
	var currency *string
	if m.CurrencyCode != "" {
		c := m.CurrencyCode
		currency = &c
	}
	return amount, currency
}

func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

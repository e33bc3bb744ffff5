package supplier

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const soapEnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"

type SOAP struct {
	config Config
	client *http.Client
}

func NewSOAP(c Config) *SOAP {
	return &SOAP{config: c, client: httpClient(c)}
}

type soapEnvelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	SoapNS  string   `xml:"xmlns:soap,attr"`
	NS      string   `xml:"xmlns:ns,attr"`
	Header  struct{} `xml:"soap:Header"`
	Body    soapBody `xml:"soap:Body"`
}

type soapBody struct {
	GetPricing *soapGetPricing `xml:"ns:GetPricing,omitempty"`
	PlaceOrder *soapPlaceOrder `xml:"ns:PlaceOrder,omitempty"`
}

type soapGetPricing struct {
	Items    []string `xml:"Items>Item"`
	Currency string   `xml:"Currency"`
}

type soapOrderItem struct {
	Name     string  `xml:"Name"`
	Quantity float64 `xml:"Quantity"`
	Unit     string  `xml:"Unit"`
	Price    float64 `xml:"Price"`
}

type soapPlaceOrder struct {
	CustomerID      string          `xml:"CustomerID"`
	DeliveryAddress string          `xml:"DeliveryAddress"`
	DeliveryDate    string          `xml:"DeliveryDate"`
	Notes           string          `xml:"Notes"`
	Items           []soapOrderItem `xml:"Items>Item"`
}

func (s *SOAP) call(ctx context.Context, action string, body soapBody) ([]byte, error) {
	if s.config.SOAPURL == "" {
		return nil, fmt.Errorf("%w: no SOAP URL", ErrNotConfigured)
	}

	payload, err := xml.Marshal(soapEnvelope{
		SoapNS: soapEnvelopeNS,
		NS:     s.config.Namespace,
		Body:   body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode soap request: %w", err)
	}

	soapAction := action
	if a, ok := s.config.SOAPActions[soapActionKey(action)]; ok && a != "" {
		soapAction = a
	}

	headers := http.Header{}
	headers.Set("Content-Type", "text/xml; charset=utf-8")
	headers.Set("SOAPAction", soapAction)

	return post(ctx, s.client, s.config.ID, s.config.SOAPURL, headers, append([]byte(xml.Header), payload...))
}

func soapActionKey(action string) string {
	switch action {
	case "GetPricing":
		return "get_pricing"
	case "PlaceOrder":
		return "place_order"
	}
	return action
}

func (s *SOAP) Pricing(ctx context.Context, items []string) ([]Price, error) {
	data, err := s.call(ctx, "GetPricing", soapBody{
		GetPricing: &soapGetPricing{Items: items, Currency: "USD"},
	})
	if err != nil {
		return nil, err
	}

	type pricedItem struct {
		Name  string `xml:"Name"`
		Price string `xml:"Price"`
		Unit  string `xml:"Unit"`
	}

	prices := []Price{}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse soap response: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Item" {
			continue
		}

		var item pricedItem
		if err := dec.DecodeElement(&item, &start); err != nil {
			return nil, fmt.Errorf("failed to parse soap item: %w", err)
		}
		name := strings.TrimSpace(item.Name)
		price, err := strconv.ParseFloat(strings.TrimSpace(item.Price), 64)
		if name == "" || err != nil {
			continue
		}

		prices = append(prices, Price{
			ItemID:      s.config.ID + "_" + snake(name),
			ItemName:    name,
			Price:       price,
			Currency:    "USD",
			Unit:        orDefault(strings.TrimSpace(item.Unit), "each"),
			LastUpdated: now(),
			SupplierID:  s.config.ID,
		})
	}

	return prices, nil
}

func (s *SOAP) PlaceOrder(ctx context.Context, order Order) (OrderResult, error) {
	req := &soapPlaceOrder{
		CustomerID:      orDefault(order.CustomerID, "default"),
		DeliveryAddress: order.DeliveryAddress,
		DeliveryDate:    order.DeliveryDate,
		Notes:           order.Notes,
	}
	for _, item := range order.Items {
		req.Items = append(req.Items, soapOrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     orDefault(item.Unit, "each"),
			Price:    item.Price,
		})
	}

	data, err := s.call(ctx, "PlaceOrder", soapBody{PlaceOrder: req})
	if err != nil {
		return OrderResult{}, err
	}

	fields, err := soapFields(data, "OrderId", "Status", "Total")
	if err != nil {
		return OrderResult{}, err
	}

	total, _ := strconv.ParseFloat(fields["Total"], 64)
	return OrderResult{
		Success:   true,
		OrderID:   orDefault(fields["OrderId"], timestampID("SOAP")),
		Status:    orDefault(fields["Status"], "pending"),
		TotalCost: total,
		Message:   fmt.Sprintf("Order placed successfully with %s", s.config.Name),
		OrderDate: now(),
	}, nil
}

// soapFields collects the text of the first element with each local name,
// wherever it sits in the document.
func soapFields(data []byte, names ...string) (map[string]string, error) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	fields := make(map[string]string, len(names))
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return fields, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse soap response: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || !wanted[start.Name.Local] {
			continue
		}
		if _, seen := fields[start.Name.Local]; seen {
			continue
		}

		var text string
		if err := dec.DecodeElement(&text, &start); err != nil {
			return nil, fmt.Errorf("failed to parse soap field %s: %w", start.Name.Local, err)
		}
		fields[start.Name.Local] = strings.TrimSpace(text)
	}
}

// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// ProductStatus describes availability of a platform product.
type ProductStatus string

const (
	ProductLive        ProductStatus = "live"
	ProductBeta        ProductStatus = "beta"
	ProductComingSoon  ProductStatus = "coming-soon"
	ProductMaintenance ProductStatus = "maintenance"
)

// Product is one entry in the platform product grid. URL is an opaque
// navigation target owned by the product itself; this client never fetches
// it.
type Product struct {
	ID          string
	Name        string
	Tagline     string
	Description string
	URL         string
	Status      ProductStatus

	// RequiresAuth products render locked on the landing view.
	RequiresAuth bool
}

// Catalog returns the static product catalog rendered by the landing and
// home views. Order is display order.
func Catalog() []Product {
	return []Product{
		{
			ID:           "pulse",
			Name:         "Pulse",
			Tagline:      "Team activity at a glance",
			Description:  "Dashboards and digests for everything your team ships.",
			URL:          "/pulse",
			Status:       ProductLive,
			RequiresAuth: true,
		},
		{
			ID:           "ledger",
			Name:         "Ledger",
			Tagline:      "Usage and billing",
			Description:  "Metered usage, invoices, and spend alerts across products.",
			URL:          "/ledger",
			Status:       ProductLive,
			RequiresAuth: true,
		},
		{
			ID:           "agent",
			Name:         "Agent",
			Tagline:      "Automation that answers back",
			Description:  "The assistant behind the chat bubble, with tool access.",
			URL:          "/agent",
			Status:       ProductBeta,
			RequiresAuth: true,
		},
		{
			ID:           "docs",
			Name:         "Docs",
			Tagline:      "Guides and reference",
			Description:  "Public documentation for every Shizuha product.",
			URL:          "/docs",
			Status:       ProductLive,
			RequiresAuth: false,
		},
		{
			ID:           "relay",
			Name:         "Relay",
			Tagline:      "Webhooks and integrations",
			Description:  "Route platform events to the tools you already use.",
			URL:          "/relay",
			Status:       ProductComingSoon,
			RequiresAuth: true,
		},
	}
}

// Badge returns the short label shown on a product card for its status.
func (s ProductStatus) Badge() string {
	switch s {
	case ProductLive:
		return ""
	case ProductBeta:
		return "BETA"
	case ProductComingSoon:
		return "SOON"
	case ProductMaintenance:
		return "MAINT"
	default:
		return ""
	}
}

// Package locator finds the primary product image and its media container
// on a storefront page.
package locator

import (
	"strings"

	"github.com/wazaphq/wazap/internal/widget/dom"
)

// imageSelectors is the ordered probe list covering the common Shopify
// themes (Dawn and friends) plus progressively looser fallbacks. The first
// selector with a usable match wins.
var imageSelectors = []string{
	".product__media img.image-magnify-none",
	".product__media img",
	".product__main-photos img",
	".product-single__photo img",
	".product-gallery__image img",
	".product-image-main img",
	"[data-product-single-media-wrapper] img",
	"[data-product-media-type=\"image\"] img",
	".product-media img",
	".media-gallery img",
	".product__photo img",
	".featured-image img",
	"[data-main-media] img",
	".main-product-image img",
	".product-essential img",
	".product img[srcset]",
	".product img",
	"[class*=\"product\"] [class*=\"image\"] img",
	"[class*=\"product\"] [class*=\"media\"] img",
}

// containerHints mark an ancestor as the image's media container.
var containerHints = []string{"product__media", "media", "product-image", "gallery"}

const (
	// minSelectorHeight is the usable-size floor for selector matches.
	minSelectorHeight = 100
	// minFallbackHeight is the stricter floor for the largest-image fallback.
	minFallbackHeight = 200
	// maxContainerDepth bounds the ancestor walk from the located image.
	maxContainerDepth = 5
)

// FindProductImage locates the primary product image. It probes the
// selector list in order, taking the first image that has a src, is
// visible, and is taller than 100px. When no selector matches it falls back
// to the largest visible image on the page taller than 200px. Returns nil
// when the page has no usable image.
func FindProductImage(doc *dom.Document) *dom.Element {
	for _, selector := range imageSelectors {
		for _, img := range doc.QueryAll(selector) {
			if usable(img, minSelectorHeight) {
				return img
			}
		}
	}

	var best *dom.Element
	bestArea := 0
	for _, img := range doc.Images() {
		if !usable(img, minFallbackHeight) {
			continue
		}
		if area := img.Area(); area > bestArea {
			best = img
			bestArea = area
		}
	}
	return best
}

// FindContainer walks up from the image looking for a media container,
// checking at most five ancestors. Without a hinted ancestor it returns the
// image's direct parent.
func FindContainer(img *dom.Element) *dom.Element {
	if img == nil {
		return nil
	}
	ancestor := img.Parent()
	for depth := 0; ancestor != nil && depth < maxContainerDepth; depth++ {
		class := strings.ToLower(ancestor.ClassName())
		for _, hint := range containerHints {
			if strings.Contains(class, hint) {
				return ancestor
			}
		}
		ancestor = ancestor.Parent()
	}
	return img.Parent()
}

func usable(img *dom.Element, minHeight int) bool {
	if img == nil || strings.TrimSpace(img.Attr("src")) == "" {
		return false
	}
	return img.Visible() && img.OffsetHeight() > minHeight
}

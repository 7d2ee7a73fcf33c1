package scraper

import (
	"github.com/PuerkitoBio/goquery"
)

// imgVisibilityStyle forces images visible in the static re-serve; many sites
// render them transparent until a lazy loader flips a class.
const imgVisibilityStyle = "opacity: 1 !important; display: block !important; visibility: visible !important;"

// injectedStyleBlock forces common layout containers visible and hides
// overlay/modal elements. JS-driven visibility toggles never run in the
// re-served copy, so this compensates statically.
const injectedStyleBlock = `<style>
body, div, article, main, section {
    display: block !important;
    opacity: 1 !important;
    visibility: visible !important;
}
[role="dialog"], [role="alert"], .modal, .popup {
    display: none !important;
}
</style>`

// Clean strips executable and embedded content from the document and patches
// it up for static serving. Scripts and iframes are removed outright so their
// contents never reach translation; lazy-loaded images are rewritten to load
// eagerly from their real source.
func Clean(doc *goquery.Document) {
	doc.Find("script, iframe").Remove()
	doc.Find(`link[as="script"]`).Remove()

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("data-src"); ok {
			img.SetAttr("src", src)
		} else if src, ok := img.Attr("data-url"); ok {
			img.SetAttr("src", src)
		}

		// srcset would let the browser re-select a source we didn't rewrite.
		img.RemoveAttr("srcset")

		img.SetAttr("loading", "eager")
		img.SetAttr("style", imgVisibilityStyle)
	})

	if head := doc.Find("head"); head.Length() > 0 {
		head.AppendHtml(injectedStyleBlock)
	} else if body := doc.Find("body"); body.Length() > 0 {
		body.PrependHtml(injectedStyleBlock)
	}
}

package builder

import (
	"errors"
	"fmt"
)

// ErrUnknownModuleKind is returned when a module type is not in the catalogue.
var ErrUnknownModuleKind = errors.New("unknown module kind")

// ModuleKind identifies what a module renders.
type ModuleKind string

const (
	KindHeading        ModuleKind = "heading"
	KindText           ModuleKind = "text"
	KindButton         ModuleKind = "button"
	KindDualButton     ModuleKind = "dual-button"
	KindImage          ModuleKind = "image"
	KindImageBox       ModuleKind = "image-box"
	KindGallery        ModuleKind = "gallery"
	KindCarousel       ModuleKind = "carousel"
	KindSlider         ModuleKind = "slider"
	KindVideo          ModuleKind = "video"
	KindAudio          ModuleKind = "audio"
	KindIcon           ModuleKind = "icon"
	KindIconBox        ModuleKind = "icon-box"
	KindIconList       ModuleKind = "icon-list"
	KindList           ModuleKind = "list"
	KindSpacer         ModuleKind = "spacer"
	KindDivider        ModuleKind = "divider"
	KindBlockquote     ModuleKind = "blockquote"
	KindTestimonial    ModuleKind = "testimonial"
	KindTestimonials   ModuleKind = "testimonials"
	KindTabs           ModuleKind = "tabs"
	KindAccordion      ModuleKind = "accordion"
	KindToggle         ModuleKind = "toggle"
	KindAlert          ModuleKind = "alert"
	KindCounter        ModuleKind = "counter"
	KindProgressBar    ModuleKind = "progress-bar"
	KindCountdown      ModuleKind = "countdown"
	KindStarRating     ModuleKind = "star-rating"
	KindPricingTable   ModuleKind = "pricing-table"
	KindPricingList    ModuleKind = "pricing-list"
	KindCallToAction   ModuleKind = "call-to-action"
	KindFlipBox        ModuleKind = "flip-box"
	KindTeamMember     ModuleKind = "team-member"
	KindSocialIcons    ModuleKind = "social-icons"
	KindSocialShare    ModuleKind = "social-share"
	KindMap            ModuleKind = "map"
	KindContactForm    ModuleKind = "contact-form"
	KindNewsletter     ModuleKind = "newsletter"
	KindLoginForm      ModuleKind = "login-form"
	KindSearch         ModuleKind = "search"
	KindMenu           ModuleKind = "menu"
	KindBreadcrumbs    ModuleKind = "breadcrumbs"
	KindPostGrid       ModuleKind = "post-grid"
	KindPostCarousel   ModuleKind = "post-carousel"
	KindPortfolio      ModuleKind = "portfolio"
	KindLogoGrid       ModuleKind = "logo-grid"
	KindTimeline       ModuleKind = "timeline"
	KindBeforeAfter    ModuleKind = "before-after"
	KindTable          ModuleKind = "table"
	KindCode           ModuleKind = "code"
	KindHTML           ModuleKind = "html"
	KindShortcode      ModuleKind = "shortcode"
	KindEmbed          ModuleKind = "embed"
	KindLottie         ModuleKind = "lottie"
	KindAnimatedHeader ModuleKind = "animated-heading"
)

var allModuleKinds = []ModuleKind{
	KindHeading, KindText, KindButton, KindDualButton, KindImage, KindImageBox,
	KindGallery, KindCarousel, KindSlider, KindVideo, KindAudio, KindIcon,
	KindIconBox, KindIconList, KindList, KindSpacer, KindDivider, KindBlockquote,
	KindTestimonial, KindTestimonials, KindTabs, KindAccordion, KindToggle,
	KindAlert, KindCounter, KindProgressBar, KindCountdown, KindStarRating,
	KindPricingTable, KindPricingList, KindCallToAction, KindFlipBox,
	KindTeamMember, KindSocialIcons, KindSocialShare, KindMap, KindContactForm,
	KindNewsletter, KindLoginForm, KindSearch, KindMenu, KindBreadcrumbs,
	KindPostGrid, KindPostCarousel, KindPortfolio, KindLogoGrid, KindTimeline,
	KindBeforeAfter, KindTable, KindCode, KindHTML, KindShortcode, KindEmbed,
	KindLottie, KindAnimatedHeader,
}

// AllModuleKinds returns every module kind in palette order.
func AllModuleKinds() []ModuleKind {
	return append([]ModuleKind(nil), allModuleKinds...)
}

// Valid reports whether k is a known module kind.
func (k ModuleKind) Valid() bool {
	for _, known := range allModuleKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseModuleKind converts a palette type string to a ModuleKind.
func ParseModuleKind(s string) (ModuleKind, error) {
	k := ModuleKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownModuleKind, s)
	}
	return k, nil
}

func items(list ...Props) []any {
	out := make([]any, len(list))
	for i, p := range list {
		out[i] = map[string]any(p)
	}
	return out
}

// DefaultContent returns a freshly built default content shape for kind.
// Unknown kinds get an empty bag.
func DefaultContent(kind ModuleKind) Props {
	switch kind {
	case KindHeading:
		return Props{"text": "Add Your Heading Here", "tag": "h2", "link": ""}
	case KindText:
		return Props{"text": "<p>Start writing your content here.</p>"}
	case KindButton:
		return Props{"text": "Click Here", "link": "#", "target": "_self", "icon": "", "iconPosition": "left"}
	case KindDualButton:
		return Props{
			"primaryText": "Get Started", "primaryLink": "#",
			"secondaryText": "Learn More", "secondaryLink": "#",
			"connector": "or",
		}
	case KindImage:
		return Props{"src": "", "alt": "", "caption": "", "link": "", "size": "full"}
	case KindImageBox:
		return Props{"src": "", "alt": "", "title": "Image Box Title", "description": "Describe this item.", "link": ""}
	case KindGallery:
		return Props{"images": []any{}, "columns": 3, "lightbox": true}
	case KindCarousel:
		return Props{"slides": []any{}, "autoplay": true, "interval": 5000, "arrows": true, "dots": true}
	case KindSlider:
		return Props{
			"slides": items(
				Props{"title": "Slide 1", "description": "", "buttonText": "", "buttonLink": "", "image": ""},
				Props{"title": "Slide 2", "description": "", "buttonText": "", "buttonLink": "", "image": ""},
			),
			"autoplay": true, "interval": 5000,
		}
	case KindVideo:
		return Props{"source": "youtube", "url": "", "autoplay": false, "muted": false, "loop": false, "controls": true}
	case KindAudio:
		return Props{"src": "", "title": "", "autoplay": false, "loop": false}
	case KindIcon:
		return Props{"icon": "star", "link": ""}
	case KindIconBox:
		return Props{"icon": "star", "title": "Icon Box Title", "description": "Describe this feature.", "link": ""}
	case KindIconList:
		return Props{"items": items(
			Props{"icon": "check", "text": "List item one"},
			Props{"icon": "check", "text": "List item two"},
			Props{"icon": "check", "text": "List item three"},
		)}
	case KindList:
		return Props{"ordered": false, "items": []any{"List item one", "List item two", "List item three"}}
	case KindSpacer:
		return Props{"height": "50px"}
	case KindDivider:
		return Props{"style": "solid", "weight": "1px", "width": "100%"}
	case KindBlockquote:
		return Props{"quote": "A well chosen quotation.", "author": "", "cite": ""}
	case KindTestimonial:
		return Props{"quote": "This product changed how we work.", "name": "Jane Doe", "role": "Customer", "image": "", "rating": 5}
	case KindTestimonials:
		return Props{"items": items(
			Props{"quote": "Fantastic service.", "name": "Jane Doe", "role": "Customer", "image": ""},
			Props{"quote": "Highly recommended.", "name": "John Smith", "role": "Client", "image": ""},
		), "autoplay": true}
	case KindTabs:
		return Props{"items": items(
			Props{"title": "Tab 1", "content": "Tab content one."},
			Props{"title": "Tab 2", "content": "Tab content two."},
		), "activeTab": 0}
	case KindAccordion:
		return Props{"items": items(
			Props{"title": "Accordion Item 1", "content": "Accordion content one."},
			Props{"title": "Accordion Item 2", "content": "Accordion content two."},
		), "openFirst": true, "allowMultiple": false}
	case KindToggle:
		return Props{"title": "Toggle Title", "content": "Toggle content.", "open": false}
	case KindAlert:
		return Props{"type": "info", "title": "Heads up", "message": "This is an alert message.", "dismissible": true}
	case KindCounter:
		return Props{"start": 0, "end": 100, "duration": 2000, "prefix": "", "suffix": "", "title": "Counter"}
	case KindProgressBar:
		return Props{"title": "Progress", "percent": 50, "showPercent": true}
	case KindCountdown:
		return Props{"date": "", "showDays": true, "showHours": true, "showMinutes": true, "showSeconds": true, "expiredText": "Expired"}
	case KindStarRating:
		return Props{"rating": 5, "scale": 5, "title": ""}
	case KindPricingTable:
		return Props{
			"title": "Basic", "price": "29", "currency": "$", "period": "/month",
			"features": []any{"Feature one", "Feature two", "Feature three"},
			"buttonText": "Buy Now", "buttonLink": "#", "featured": false,
		}
	case KindPricingList:
		return Props{"items": items(
			Props{"title": "Item one", "price": "$10", "description": ""},
			Props{"title": "Item two", "price": "$20", "description": ""},
		)}
	case KindCallToAction:
		return Props{"title": "Ready to get started?", "description": "Join today.", "buttonText": "Sign Up", "buttonLink": "#"}
	case KindFlipBox:
		return Props{
			"frontTitle": "Front Title", "frontDescription": "", "frontIcon": "star",
			"backTitle": "Back Title", "backDescription": "", "buttonText": "Learn More", "buttonLink": "#",
			"direction": "left",
		}
	case KindTeamMember:
		return Props{"name": "Team Member", "role": "Position", "bio": "", "image": "", "social": []any{}}
	case KindSocialIcons:
		return Props{"items": items(
			Props{"network": "facebook", "url": "#"},
			Props{"network": "twitter", "url": "#"},
			Props{"network": "instagram", "url": "#"},
		)}
	case KindSocialShare:
		return Props{"networks": []any{"facebook", "twitter", "linkedin"}, "label": "Share"}
	case KindMap:
		return Props{"address": "", "zoom": 14, "height": "300px"}
	case KindContactForm:
		return Props{
			"fields": items(
				Props{"type": "text", "label": "Name", "required": true},
				Props{"type": "email", "label": "Email", "required": true},
				Props{"type": "textarea", "label": "Message", "required": false},
			),
			"submitText": "Send", "successMessage": "Thanks, we will be in touch.",
		}
	case KindNewsletter:
		return Props{"placeholder": "Your email address", "buttonText": "Subscribe", "successMessage": "Subscribed."}
	case KindLoginForm:
		return Props{"showRemember": true, "showLostPassword": true, "buttonText": "Log In", "redirect": ""}
	case KindSearch:
		return Props{"placeholder": "Search...", "buttonText": "Search"}
	case KindMenu:
		return Props{"menuId": "", "layout": "horizontal"}
	case KindBreadcrumbs:
		return Props{"separator": "/", "showHome": true, "homeText": "Home"}
	case KindPostGrid:
		return Props{"postType": "post", "count": 6, "columns": 3, "showExcerpt": true, "showImage": true}
	case KindPostCarousel:
		return Props{"postType": "post", "count": 6, "visible": 3, "autoplay": true}
	case KindPortfolio:
		return Props{"items": []any{}, "columns": 3, "filterable": true}
	case KindLogoGrid:
		return Props{"logos": []any{}, "columns": 4, "grayscale": true}
	case KindTimeline:
		return Props{"items": items(
			Props{"date": "2024", "title": "Milestone one", "content": ""},
			Props{"date": "2025", "title": "Milestone two", "content": ""},
		)}
	case KindBeforeAfter:
		return Props{"before": "", "after": "", "beforeLabel": "Before", "afterLabel": "After", "orientation": "horizontal"}
	case KindTable:
		return Props{
			"header": []any{"Column 1", "Column 2"},
			"rows":   []any{[]any{"Cell", "Cell"}, []any{"Cell", "Cell"}},
		}
	case KindCode:
		return Props{"language": "plaintext", "code": ""}
	case KindHTML:
		return Props{"html": ""}
	case KindShortcode:
		return Props{"shortcode": ""}
	case KindEmbed:
		return Props{"url": "", "height": "400px"}
	case KindLottie:
		return Props{"src": "", "loop": true, "autoplay": true}
	case KindAnimatedHeader:
		return Props{"before": "This page is", "animated": []any{"fast", "simple", "yours"}, "after": "", "animation": "typing", "tag": "h2"}
	}
	return Props{}
}

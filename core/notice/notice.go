// Package notice holds the informational modals of the landing page.
package notice

// Slugs
const (
	RequestDemo      = "request-demo"
	DownloadProposal = "download-proposal"
)

type Notice struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

var notices = []Notice{
	{
		Slug:    RequestDemo,
		Title:   "Request Demo",
		Message: "Thank you for your interest! Our team will contact you within 24 hours to schedule a personalized demo of the School Management System.",
	},
	{
		Slug:    DownloadProposal,
		Title:   "Download Proposal",
		Message: "The detailed project proposal has been prepared for download. Please contact us at rishabagarwal27@gmail.com to receive the complete documentation.",
	},
}

// All returns every notice in display order.
func All() []Notice {
	cp := make([]Notice, len(notices))
	copy(cp, notices)
	return cp
}

func Get(slug string) (Notice, bool) {
	for _, n := range notices {
		if n.Slug == slug {
			return n, true
		}
	}
	return Notice{}, false
}

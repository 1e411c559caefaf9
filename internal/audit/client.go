package audit

import (
	"strings"

	"github.com/mssola/useragent"
)

// ClientBot labels crawlers and other automated agents.
const ClientBot = "bot"

// ClientClass reduces a User-Agent to a coarse "browser/form factor" label
// such as "chrome/desktop". Versions and OS details are dropped so the label
// cannot single out a caller.
func ClientClass(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return ""
	}
	ua := useragent.New(userAgent)
	if ua.Bot() {
		return ClientBot
	}

	browser, _ := ua.Browser()
	browser = strings.ToLower(strings.TrimSpace(browser))
	if browser == "" {
		browser = "unknown"
	}
	form := "desktop"
	if ua.Mobile() {
		form = "mobile"
	}
	return browser + "/" + form
}

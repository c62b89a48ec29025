package imagesearch

import "strings"

// DefaultBlocklist holds stock-photo and slide-sharing hosts whose results are
// watermarked thumbnails or licensed images.
var DefaultBlocklist = []string{
	"alamy.com",
	"dreamstime.com",
	"istockphoto.com",
	"bigstockphoto.com",
	"slideserve.com",
	"chefspencil.com",
	"ppt-online.org",
	"shutterstock.com",
	"depositphotos.com",
	"focusedcollection.com",
	"pinimg.com",
	"gettyimages.com",
	"dissolve.com",
	"vseosvita.ua",
}

// Blocked reports the first blocklist entry contained in link.
func Blocked(link string, blocklist []string) (string, bool) {
	for _, site := range blocklist {
		if site != "" && strings.Contains(link, site) {
			return site, true
		}
	}
	return "", false
}

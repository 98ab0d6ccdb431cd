package sheets

import (
	"net/url"
	"strings"
)

const (
	host       = "docs.google.com"
	pathPrefix = "/spreadsheets/d/"
)

// ResolveExportURL converts a Google Sheets link into its CSV export URL.
// The sheet tab (gid) is taken from the fragment or query when present.
// Export links and non-Sheets identifiers are returned unchanged.
func ResolveExportURL(identifier string) string {
	u, err := url.Parse(identifier)
	if err != nil || u.Host != host || !strings.HasPrefix(u.Path, pathPrefix) {
		return identifier
	}

	segments := strings.Split(strings.TrimPrefix(u.Path, pathPrefix), "/")
	if segments[0] == "" {
		return identifier
	}

	// Published sheets: /spreadsheets/d/e/<pubid>/pubhtml
	if segments[0] == "e" {
		if len(segments) < 2 || segments[1] == "" {
			return identifier
		}
		if len(segments) > 2 && segments[2] == "pub" && u.Query().Get("output") == "csv" {
			return identifier
		}
		q := url.Values{}
		q.Set("output", "csv")
		if gid := sheetGID(u); gid != "" {
			q.Set("gid", gid)
		}
		return exportURL(u.Scheme, pathPrefix+"e/"+segments[1]+"/pub", q)
	}

	if len(segments) > 1 && segments[1] == "export" {
		return identifier
	}

	q := url.Values{}
	q.Set("format", "csv")
	if gid := sheetGID(u); gid != "" {
		q.Set("gid", gid)
	}
	return exportURL(u.Scheme, pathPrefix+segments[0]+"/export", q)
}

// IsSheetsURL reports whether identifier points at a Google Sheets document.
func IsSheetsURL(identifier string) bool {
	u, err := url.Parse(identifier)
	return err == nil && u.Host == host && strings.HasPrefix(u.Path, pathPrefix)
}

func sheetGID(u *url.URL) string {
	if frag, err := url.ParseQuery(u.Fragment); err == nil {
		if gid := frag.Get("gid"); gid != "" {
			return gid
		}
	}
	return u.Query().Get("gid")
}

func exportURL(scheme, path string, q url.Values) string {
	if scheme == "" {
		scheme = "https"
	}
	out := url.URL{Scheme: scheme, Host: host, Path: path, RawQuery: q.Encode()}
	return out.String()
}

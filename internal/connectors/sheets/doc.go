// Package sheets rewrites Google Sheets links into their CSV export form.
//
// Sheets shared for viewing can be downloaded without credentials through
// the export endpoint:
//
//	https://docs.google.com/spreadsheets/d/<id>/export?format=csv&gid=<gid>
//
// Sheets published to the web use the pub endpoint instead:
//
//	https://docs.google.com/spreadsheets/d/e/<pubid>/pub?output=csv
package sheets

// Package render builds the HTML body of the notification email. Every
// user-controlled string passes through HTML escaping here; this is the only
// injection-defense boundary between the form and a mail client.
package render

import (
	"html/template"
	"sort"
	"strings"
)

type row struct {
	Key   string
	Value template.HTML
}

type notification struct {
	CaseID string
	Rows   []row
}

var notificationTmpl = template.Must(template.New("notification").Parse(`<h2 style="color:#0f3a6d;font-family:sans-serif;margin:0 0 8px;">Bahamasair Baggage Irregularity Report</h2>
<p style="font-family:sans-serif;margin:0 0 12px;">Case: <b>{{.CaseID}}</b></p>
<table border="1" cellpadding="0" cellspacing="0" style="border-collapse:collapse;width:100%;font-family:sans-serif;font-size:14px;border-color:#dbe3ef;">
{{range .Rows}}<tr><td style="font-weight:600;color:#0f3a6d;padding:8px 10px;">{{.Key}}</td><td style="padding:8px 10px;">{{.Value}}</td></tr>
{{end}}</table>
<hr style="border:none;border-top:1px solid #dbe3ef;margin:18px 0;">
<p style="font-size:13px;color:#444;font-family:sans-serif;margin:0;">
  This is an automated message from Bahamasair&rsquo;s Baggage Reporting System.
</p>
<br>
<p style="font-size:13px;color:#0f3a6d;font-family:sans-serif;margin:0;font-weight:600;">NOTICE TO PASSENGERS:</p>
<p style="font-size:13px;color:#111;font-family:sans-serif;line-height:1.5;margin:6px 0 0;">
  This is a copy of your report covering the mishandling (delay, pilfered, damage or loss) of your baggage.<br>
  <strong>NOTE:</strong> All damage bag reports will be processed in the order that they are received.
</p>
<p style="font-size:13px;color:#c00;font-weight:700;font-family:sans-serif;margin:8px 0 0;">
  ANY CLAIM RECEIVED AFTER 90 DAYS WILL NOT BE HONORED.
</p>
`))

// Notification renders the two-column field table plus the fixed header and
// passenger notice boilerplate. Fields are listed in sorted key order with
// the generated case ID appended as case_id.
func Notification(fields map[string]string, caseID string) (string, error) {
	keys := make([]string, 0, len(fields)+1)
	for key := range fields {
		if key != "case_id" {
			keys = append(keys, key)
		}
	}
	keys = append(keys, "case_id")
	sort.Strings(keys)

	rows := make([]row, 0, len(keys))
	for _, key := range keys {
		value := fields[key]
		if key == "case_id" {
			value = caseID
		}
		rows = append(rows, row{Key: key, Value: escapeValue(value)})
	}

	var out strings.Builder
	if err := notificationTmpl.Execute(&out, notification{CaseID: caseID, Rows: rows}); err != nil {
		return "", err
	}
	return out.String(), nil
}

// escapeValue escapes a field value and converts newlines to line breaks so
// multi-line damage descriptions survive rendering.
func escapeValue(value string) template.HTML {
	escaped := template.HTMLEscapeString(value)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	escaped = strings.ReplaceAll(escaped, "\r", "\n")
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>")) // #nosec G203 -- escaped above.
}

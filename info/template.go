package info

import (
	"fmt"
	"html/template"
	"strings"
)

// UIType names a built-in documentation viewer.
type UIType string

const (
	UIStoplight UIType = "stoplight"
	UIScalar    UIType = "scalar"
	UISwaggerUI UIType = "swaggerui"
	UIRedoc     UIType = "redoc"
)

// ParseUIType maps a configuration value to a UIType.
func ParseUIType(s string) (UIType, error) {
	switch ui := UIType(strings.ToLower(strings.TrimSpace(s))); ui {
	case UIStoplight, UIScalar, UISwaggerUI, UIRedoc:
		return ui, nil
	case "":
		return UIStoplight, nil
	default:
		return "", fmt.Errorf("unknown docs ui %q", s)
	}
}

func (ui UIType) template() *template.Template {
	switch ui {
	case UIScalar:
		return templateScalar
	case UISwaggerUI:
		return templateSwaggerUI
	case UIRedoc:
		return templateRedoc
	default:
		return templateStoplight
	}
}

var (
	templateStoplight = template.Must(template.New("docs-stoplight").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <script src="https://unpkg.com/@stoplight/elements/web-components.min.js"></script>
  <link rel="stylesheet" href="https://unpkg.com/@stoplight/elements/styles.min.css">
</head>
<body>
  <elements-api apiDescriptionUrl="{{.SpecURL}}" router="hash" layout="sidebar"></elements-api>
</body>
</html>
`))

	templateScalar = template.Must(template.New("docs-scalar").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
</head>
<body>
  <script id="api-reference" data-url="{{.SpecURL}}"></script>
  <script src="https://cdn.jsdelivr.net/npm/@scalar/api-reference"></script>
</body>
</html>
`))

	templateSwaggerUI = template.Must(template.New("docs-swaggerui").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui" data-url="{{.SpecURL}}"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    const root = document.getElementById("swagger-ui");
    window.ui = SwaggerUIBundle({ url: root.dataset.url, dom_id: "#swagger-ui" });
  </script>
</body>
</html>
`))

	templateRedoc = template.Must(template.New("docs-redoc").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
</head>
<body>
  <redoc spec-url="{{.SpecURL}}"></redoc>
  <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>
`))
)

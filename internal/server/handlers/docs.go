package handlers

import (
	"html/template"
	"net/http"

	"github.com/stationhouse/backplate/internal/server/response"
)

var swaggerUITemplate = template.Must(template.New("swagger-ui").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <link type="text/css" rel="stylesheet" href="{{.CSSURL}}">
    <title>{{.Title}} - Swagger UI</title>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="{{.JSURL}}"></script>
    <script>
    const ui = SwaggerUIBundle({
        url: '{{.SchemaURL}}',
        dom_id: '#swagger-ui',
        presets: [
            SwaggerUIBundle.presets.apis,
            SwaggerUIBundle.SwaggerUIStandalonePreset
        ],
        layout: "BaseLayout",
        deepLinking: true,
        showExtensions: true,
        showCommonExtensions: true,
        oauth2RedirectUrl: window.location.origin + '{{.OAuth2RedirectURL}}'
    })
    </script>
</body>
</html>
`))

var redocTemplate = template.Must(template.New("redoc").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}} - ReDoc</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
    body {
        margin: 0;
        padding: 0;
    }
    </style>
</head>
<body>
    <noscript>
        ReDoc requires Javascript to function. Please enable it to browse the documentation.
    </noscript>
    <redoc spec-url="{{.SchemaURL}}"></redoc>
    <script src="{{.JSURL}}"></script>
</body>
</html>
`))

// oauth2RedirectPage completes the OAuth2 authorization-code flow for the
// Swagger UI popup window.
const oauth2RedirectPage = `<!DOCTYPE html>
<html lang="en-US">
<head>
    <title>Swagger UI: OAuth2 Redirect</title>
</head>
<body>
<script>
'use strict';
function run() {
    var oauth2 = window.opener.swaggerUIRedirectOauth2;
    var sentState = oauth2.state;
    var redirectUrl = oauth2.redirectUrl;
    var isValid, qp, arr;

    if (/code|token|error/.test(window.location.hash)) {
        qp = window.location.hash.substring(1).replace('?', '&');
    } else {
        qp = location.search.substring(1);
    }

    arr = qp.split("&");
    arr.forEach(function (v, i, _arr) { _arr[i] = '"' + v.replace('=', '":"') + '"'; });
    qp = qp ? JSON.parse('{' + arr.join() + '}',
            function (key, value) {
                return key === "" ? value : decodeURIComponent(value);
            }
    ) : {};

    isValid = qp.state === sentState;

    if ((
      oauth2.auth.schema.get("flow") === "accessCode" ||
      oauth2.auth.schema.get("flow") === "authorizationCode" ||
      oauth2.auth.schema.get("flow") === "authorization_code"
    ) && !oauth2.auth.code) {
        if (!isValid) {
            oauth2.errCb({
                authId: oauth2.auth.name,
                source: "auth",
                level: "warning",
                message: "Authorization may be unsafe, passed state was changed in server. The passed state wasn't returned from auth server."
            });
        }

        if (qp.code) {
            delete oauth2.state;
            oauth2.auth.code = qp.code;
            oauth2.callback({auth: oauth2.auth, redirectUrl: redirectUrl});
        } else {
            let oauthErrorMsg;
            if (qp.error) {
                oauthErrorMsg = "["+qp.error+"]: " +
                    (qp.error_description ? qp.error_description+ ". " : "no accessCode received from the server. ") +
                    (qp.error_uri ? "More info: "+qp.error_uri : "");
            }

            oauth2.errCb({
                authId: oauth2.auth.name,
                source: "auth",
                level: "error",
                message: oauthErrorMsg || "[Authorization failed]: no accessCode received from the server."
            });
        }
    } else {
        oauth2.callback({auth: oauth2.auth, token: qp, isValid: isValid, redirectUrl: redirectUrl});
    }
    window.close();
}

if (document.readyState !== 'loading') {
    run();
} else {
    document.addEventListener('DOMContentLoaded', function () {
        run();
    });
}
</script>
</body>
</html>
`

// docsPage carries the values the documentation templates interpolate.
type docsPage struct {
	Title             string
	JSURL             string
	CSSURL            string
	SchemaURL         string
	OAuth2RedirectURL string
}

// HandleDocs serves the interactive API explorer.
// @Summary Interactive API documentation
// @Description Swagger UI page referencing the configured static assets and schema URL
// @Tags meta
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /docs [get].
func (h *Handlers) HandleDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := swaggerUITemplate.Execute(w, docsPage{
		Title:             h.config.Title,
		JSURL:             h.config.SwaggerJSURL,
		CSSURL:            h.config.SwaggerCSSURL,
		SchemaURL:         h.config.SchemaURL,
		OAuth2RedirectURL: h.config.OAuth2RedirectURL,
	}); err != nil {
		response.InternalError(w, err)
	}
}

// HandleOAuth2Redirect serves the OAuth2 redirect helper used by the
// explorer's authentication flow.
// @Summary OAuth2 redirect helper
// @Tags meta
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /docs/oauth2-redirect [get].
func (h *Handlers) HandleOAuth2Redirect(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(oauth2RedirectPage))
}

// HandleRedoc serves the reference documentation viewer.
// @Summary Reference API documentation
// @Description ReDoc page referencing the configured script and schema URL
// @Tags meta
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /redoc [get].
func (h *Handlers) HandleRedoc(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := redocTemplate.Execute(w, docsPage{
		Title:     h.config.Title,
		JSURL:     h.config.RedocJSURL,
		SchemaURL: h.config.SchemaURL,
	}); err != nil {
		response.InternalError(w, err)
	}
}

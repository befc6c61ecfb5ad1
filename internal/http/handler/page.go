package handler

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

// formPage submits through /api/lookup and lets the server run the lookup.
const formPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>User Lookup</title>
</head>
<body>
  <input type="text" id="userId" placeholder="Enter User ID" />
  <button onclick="fetchUserData()">Get User Details</button>
  <div id="userDetails"></div>
  <script>
    async function fetchUserData() {
      const userId = document.getElementById('userId').value;
      try {
        const response = await fetch('/api/lookup?userId=' + encodeURIComponent(userId));
        const data = await response.json();
        if (response.ok) {
          document.getElementById('userDetails').innerHTML = data.html;
        } else if (data.error && data.error.code === 'USER_ID_REQUIRED') {
          alert(data.error.message);
        } else {
          console.error('Failed to fetch user data:', data.error);
        }
      } catch (error) {
        console.error('Failed to fetch user data:', error);
      }
    }
  </script>
</body>
</html>`

// wasmPage runs the lookup in the browser; fetchUserData is defined by cmd/web.
var wasmPage = template.Must(template.New("wasm").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>User Lookup</title>
  <script src="/static/wasm_exec.js"></script>
</head>
<body>
  <input type="text" id="userId" placeholder="Enter User ID" />
  <button onclick="fetchUserData()">Get User Details</button>
  <div id="userDetails" data-policy="{{.Policy}}" data-base-url="{{.BaseURL}}"></div>
  <script>
    const go = new Go();
    WebAssembly.instantiateStreaming(fetch('/static/main.wasm'), go.importObject)
      .then((result) => go.run(result.instance))
      .catch((error) => console.error('Failed to load user lookup:', error));
  </script>
</body>
</html>`))

// PageOptions configures the browser-side page.
type PageOptions struct {
	Policy  string
	BaseURL string
}

// FormPage serves the server-backed form.
func FormPage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Type("html").SendString(formPage)
	}
}

// WasmPage serves the form that runs the lookup in WebAssembly.
func WasmPage(opts PageOptions) (fiber.Handler, error) {
	var buf bytes.Buffer
	if err := wasmPage.Execute(&buf, opts); err != nil {
		return nil, err
	}
	page := buf.String()
	return func(c *fiber.Ctx) error {
		return c.Type("html").SendString(page)
	}, nil
}

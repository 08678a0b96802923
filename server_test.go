package webserver

import (
	"bufio"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, files map[string]string, configure ...func(*Config)) *Server {
	var root = t.TempDir()

	for name, content := range files {
		var fullpath = filepath.Join(root, filepath.FromSlash(name))
		var mode os.FileMode = 0644

		if strings.HasSuffix(name, `/`) {
			require.NoError(t, os.MkdirAll(fullpath, 0755))
			continue
		} else if strings.HasSuffix(name, `.sh`) {
			mode = 0755
		}

		require.NoError(t, os.MkdirAll(filepath.Dir(fullpath), 0755))
		require.NoError(t, os.WriteFile(fullpath, []byte(content), mode))
	}

	var config = DefaultConfig()
	config.WebDir = root

	for _, fn := range configure {
		fn(config)
	}

	require.NoError(t, config.Validate())

	server, err := NewServer(config)
	require.NoError(t, err)

	return server
}

func doRequest(server http.Handler, method string, target string, body io.Reader, headers ...string) *httptest.ResponseRecorder {
	var req = httptest.NewRequest(method, target, body)
	var w = httptest.NewRecorder()

	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	server.ServeHTTP(w, req)
	return w
}

func TestServerServeHTTP(t *testing.T) {
	var server interface{} = newTestServer(t, nil)

	// ensure that we do, in fact, implement http.Handler
	_, ok := server.(http.Handler)
	assert.True(t, ok)
}

func TestServerTemplateScenario(t *testing.T) {
	server := newTestServer(t, map[string]string{
		`templates/test.tmpl`: `<h1>{title}</h1><p>{arg1} and {arg2}</p>`,
	})

	w := doRequest(server, `GET`, `/templates/test.tmpl?title=Hi&arg1=FooBar&arg2=23`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `text/html`, w.Header().Get(`Content-Type`))
	assert.Equal(t, `<h1>Hi</h1><p>FooBar and 23</p>`, w.Body.String())
	assert.Equal(t, `31`, w.Header().Get(`Content-Length`))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestServerRoundTripParam(t *testing.T) {
	server := newTestServer(t, map[string]string{
		`page.html`: `<p>{arg1}</p>`,
	})

	w := doRequest(server, `GET`, `/page.html?arg1=foo`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `foo`)
	assert.NotContains(t, w.Body.String(), `{arg1}`)
}

func TestServerRedirects(t *testing.T) {
	server := newTestServer(t, nil)

	w := doRequest(server, `GET`, `/redirect/to/https/example.com`, nil)
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, `https://example.com`, w.Header().Get(`Location`))
	assert.Contains(t, w.Header().Get(`Set-Cookie`), SessionCookieName+`=`)

	w = doRequest(server, `GET`, `/redirect/to/some/page.html`, nil, `Cookie`, `ws_sid=abcdefghijklmnop; other=1`)
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
	assert.Equal(t, `/some/page.html`, w.Header().Get(`Location`))
	assert.Equal(t, []string{`ws_sid=abcdefghijklmnop`, `other=1`}, w.Header().Values(`Set-Cookie`))
}

func TestServerNotFound(t *testing.T) {
	server := newTestServer(t, map[string]string{
		`dir/file.txt`: `hello`,
	})

	for _, target := range []string{
		`/nonexistent.html`,
		`/nonexistent.sh!`,
		`/dir!`,
		`/missing/@`,
		`/%2e%2e/secret`,
	} {
		w := doRequest(server, `GET`, target, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, target)
		assert.Contains(t, w.Header().Get(`Set-Cookie`), SessionCookieName+`=`, target)
	}
}

func TestServerIndexAndListing(t *testing.T) {
	server := newTestServer(t, map[string]string{
		`dir/index.html`: `<p>the index of {urldir}</p>`,
		`dir/Zeta.txt`:   `z`,
		`dir/alpha.txt`:  `a`,
		`empty/`:         ``,
	})

	w := doRequest(server, `GET`, `/dir/`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<p>the index of /dir</p>`)
	assert.NotContains(t, w.Body.String(), `<pre>`)

	w = doRequest(server, `GET`, `/dir/@`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `text/html`, w.Header().Get(`Content-Type`))

	var body = w.Body.String()
	assert.Contains(t, body, `<pre>`)
	assert.NotContains(t, body, `the index of`)

	var parent = strings.Index(body, `>..</a>`)
	var alpha = strings.Index(body, `>alpha.txt</a>`)
	var index = strings.Index(body, `>index.html</a>`)
	var zeta = strings.Index(body, `>Zeta.txt</a>`)

	assert.True(t, parent >= 0 && parent < alpha)
	assert.True(t, alpha < index)
	assert.True(t, index < zeta)

	w = doRequest(server, `GET`, `/empty/`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<pre>`)

	w = doRequest(server, `GET`, `/`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `>..</a>`)
	assert.Contains(t, w.Body.String(), `>dir</a>`)
}

func TestServerDumpAndExecute(t *testing.T) {
	server := newTestServer(t, map[string]string{
		`page.html`: `<p>{nothing}</p>`,
		`hello.sh`:  "#!/bin/sh\necho \"hello $REQ_PARAM_NAME\"\n",
	})

	w := doRequest(server, `GET`, `/page.html@`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `text/plain`, w.Header().Get(`Content-Type`))
	assert.Equal(t, `<p>{nothing}</p>`, w.Body.String())

	w = doRequest(server, `GET`, `/hello.sh!?name=World`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `text/plain`, w.Header().Get(`Content-Type`))
	assert.Equal(t, "hello World\n", w.Body.String())

	w = doRequest(server, `GET`, `/hello.sh!?content-type=text/html`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `text/html`, w.Header().Get(`Content-Type`))

	w = doRequest(server, `GET`, `/hello.sh`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `#!/bin/sh`)
}

func TestServerMissingKey(t *testing.T) {
	server := newTestServer(t, map[string]string{
		`broken.html`: `<p>{present} {absent}</p>`,
	})

	w := doRequest(server, `GET`, `/broken.html?present=yes`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `text/plain`, w.Header().Get(`Content-Type`))
	assert.True(t, strings.HasPrefix(w.Body.String(), `<!-- ERROR: `))
	assert.Contains(t, w.Body.String(), `absent`)
	assert.True(t, strings.HasSuffix(w.Body.String(), "-->\n<p>{present} {absent}</p>"))
}

func TestServerScriptsAndGlobals(t *testing.T) {
	server := newTestServer(t, map[string]string{
		`script.html`: `<!-- script
    {{ if eq (asInt .count) 42 }}
        {{ set "answer" "yes" }}
    {{ else }}
        {{ set "answer" "no" }}
    {{ end }}
    {{ set "shout" (upper .name) }}
-->
<p>{answer} {shout} {site} {sid}</p>`,
	}, func(config *Config) {
		config.Extra = []string{`count=42`, `site=example`, `name=global`}
	})

	w := doRequest(server, `GET`, `/script.html?name=request`, nil, `Cookie`, `ws_sid=abcdefghijklmnop`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `<p>yes REQUEST example abcdefghijklmnop</p>`, w.Body.String())
}

func TestServerPostParams(t *testing.T) {
	server := newTestServer(t, map[string]string{
		`form.html`: `<p>Hello {name} from {source}</p>`,
	})

	w := doRequest(
		server,
		`POST`,
		`/form.html?source=query`,
		strings.NewReader(`name=World&source=body`),
		`Content-Type`, `application/x-www-form-urlencoded`,
	)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `<p>Hello World from query</p>`, w.Body.String())
}

func TestServerInfoAndSysname(t *testing.T) {
	server := newTestServer(t, nil, func(config *Config) {
		config.SysnameCommand = `echo testhost`
	})

	w := doRequest(server, `GET`, `/webserver/info?x=<y>`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `text/html`, w.Header().Get(`Content-Type`))
	assert.Contains(t, w.Body.String(), `   --port         8080`)
	assert.Contains(t, w.Body.String(), `x=&#34;&lt;y&gt;&#34;`)

	w = doRequest(server, `GET`, `/system/name`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `text/plain`, w.Header().Get(`Content-Type`))
	assert.Equal(t, "testhost\n", w.Body.String())
}

func TestServerMethodsAndHeaders(t *testing.T) {
	server := newTestServer(t, map[string]string{
		`file.txt`: `plain`,
	}, func(config *Config) {
		config.NoCache = true
	})

	w := doRequest(server, `PUT`, `/file.txt`, strings.NewReader(`x`))
	assert.Equal(t, http.StatusNotImplemented, w.Code)

	w = doRequest(server, `GET`, `/file.txt`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `plain`, w.Body.String())
	assert.Equal(t, `no-cache, no-store, must-revalidate`, w.Header().Get(`Cache-Control`))
	assert.Equal(t, `no-cache`, w.Header().Get(`Pragma`))
	assert.Equal(t, `0`, w.Header().Get(`Expires`))
}

func TestServerCustomHandler(t *testing.T) {
	server := newTestServer(t, map[string]string{
		`file.txt`: `plain`,
	})

	server.Handler = func(rc *RequestContext) {
		if rc.URLPath == `/custom` {
			rc.Logger().Infof("custom handler")
			rc.SendString(`text/plain`, rc.URLPrefix()+` `+rc.Options().Entry)
			return
		}

		DefaultRequestHandler(rc)
	}

	w := doRequest(server, `GET`, `/custom`, nil)
	assert.Equal(t, `http://localhost:8080 RequestHandler`, w.Body.String())

	w = doRequest(server, `GET`, `/file.txt`, nil)
	assert.Equal(t, `plain`, w.Body.String())

	server.Handler = func(rc *RequestContext) {}

	w = doRequest(server, `GET`, `/file.txt`, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestServerIsTemplate(t *testing.T) {
	server := newTestServer(t, nil, func(config *Config) {
		config.TemplatePatterns = []string{`*.tmpl`, `pages/*.txt`}
	})

	assert.True(t, server.IsTemplate(filepath.Join(server.Config.WebDir, `a`, `b.tmpl`)))
	assert.True(t, server.IsTemplate(filepath.Join(server.Config.WebDir, `pages`, `x.txt`)))
	assert.False(t, server.IsTemplate(filepath.Join(server.Config.WebDir, `other`, `x.txt`)))
	assert.False(t, server.IsTemplate(filepath.Join(server.Config.WebDir, `index.html`)))
}

func TestLoadPluginErrors(t *testing.T) {
	_, err := LoadPlugin(filepath.Join(t.TempDir(), `missing.so`), ``)
	assert.Error(t, err)
}

func TestGeneratePlugin(t *testing.T) {
	var out strings.Builder

	require.NoError(t, GeneratePlugin(&out, `HandleIt`))
	assert.Contains(t, out.String(), `package main`)
	assert.Contains(t, out.String(), `func HandleIt(rc *webserver.RequestContext) {`)
}

func TestServerScriptErrorPage(t *testing.T) {
	server := newTestServer(t, map[string]string{
		`bad.html`: "<!-- script {{ nosuchfunction }} -->\n<p>{title}</p>",
	})

	w := doRequest(server, `GET`, `/bad.html?title=x`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `text/plain`, w.Header().Get(`Content-Type`))
	assert.True(t, strings.HasPrefix(w.Body.String(), `<!-- ERROR: script 0: `))
	assert.True(t, strings.HasSuffix(w.Body.String(), "<p>{title}</p>"))
}

func TestServerHead(t *testing.T) {
	server := newTestServer(t, map[string]string{
		`page.html`: `<p>{title}</p>`,
	})

	w := doRequest(server, `HEAD`, `/page.html?title=Hi`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `9`, w.Header().Get(`Content-Length`))
	assert.Empty(t, w.Body.String())
}

func TestServerPostTrailingCRLF(t *testing.T) {
	server := newTestServer(t, map[string]string{
		`form.html`: `<p>Hello {name}</p>`,
	})

	ts := httptest.NewServer(server)
	defer ts.Close()

	conn, err := net.Dial(`tcp`, ts.Listener.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetDeadline(time.Now().Add(10*time.Second)))

	// the POST body is followed by a CRLF not counted in Content-Length, then a second
	// request on the same connection
	_, err = io.WriteString(conn, "POST /form.html HTTP/1.1\r\n"+
		"Host: localhost\r\n"+
		"Content-Type: application/x-www-form-urlencoded\r\n"+
		"Content-Length: 10\r\n"+
		"\r\n"+
		"name=World\r\n"+
		"GET /form.html?name=Again HTTP/1.1\r\n"+
		"Host: localhost\r\n"+
		"\r\n")
	require.NoError(t, err)

	var reader = bufio.NewReader(conn)

	for _, expected := range []string{`<p>Hello World</p>`, `<p>Hello Again</p>`} {
		res, err := http.ReadResponse(reader, nil)
		require.NoError(t, err)

		body, err := io.ReadAll(res.Body)
		res.Body.Close()
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, expected, string(body))
	}
}

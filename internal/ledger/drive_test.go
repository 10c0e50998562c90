package ledger

import (
	"context"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
	"google.golang.org/api/option"
)

var _ = Describe("ListSpreadsheets", func() {
	var server *ghttp.Server

	BeforeEach(func() {
		server = ghttp.NewServer()
	})

	AfterEach(func() {
		server.Close()
	})

	list := func() ([]SpreadsheetFile, error) {
		return ListSpreadsheets(context.Background(),
			option.WithEndpoint(server.URL()+"/"),
			option.WithHTTPClient(http.DefaultClient),
		)
	}

	When("spreadsheets are shared with the account", func() {
		BeforeEach(func() {
			server.AppendHandlers(
				ghttp.CombineHandlers(
					ghttp.VerifyRequest("GET", "/files"),
					func(w http.ResponseWriter, r *http.Request) {
						Expect(r.URL.Query().Get("q")).To(ContainSubstring(spreadsheetMimeType))
					},
					ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]interface{}{
						"nextPageToken": "page2",
						"files":         []map[string]string{{"id": "id1", "name": "Računi 2024"}},
					}),
				),
				ghttp.CombineHandlers(
					ghttp.VerifyRequest("GET", "/files"),
					func(w http.ResponseWriter, r *http.Request) {
						Expect(r.URL.Query().Get("pageToken")).To(Equal("page2"))
					},
					ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]interface{}{
						"files": []map[string]string{{"id": "id2", "name": "Računi 2025"}},
					}),
				),
			)
		})

		It("returns every page", func() {
			files, err := list()
			Expect(err).NotTo(HaveOccurred())
			Expect(files).To(Equal([]SpreadsheetFile{
				{ID: "id1", Name: "Računi 2024"},
				{ID: "id2", Name: "Računi 2025"},
			}))
		})
	})

	When("nothing is shared", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]interface{}{"files": []string{}}))
		})

		It("returns an empty list", func() {
			files, err := list()
			Expect(err).NotTo(HaveOccurred())
			Expect(files).To(BeEmpty())
		})
	})

	When("the API rejects the request", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusForbidden, map[string]interface{}{
				"error": map[string]interface{}{"code": 403, "message": "forbidden"},
			}))
		})

		It("returns a connection error", func() {
			_, err := list()
			Expect(err).To(MatchError(ErrConnection))
		})
	})
})

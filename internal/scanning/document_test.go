package scanning

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// tinyPNG encodes a 2x2 image
func tinyPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	Expect(png.Encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("NewDocument", func() {
	var (
		filename    string
		contentType string
		data        []byte
		source      Source
		doc         Document
		err         error
	)

	BeforeEach(func() {
		filename = "IMG_2024 (1).jpg"
		contentType = "image/jpeg"
		data = []byte("fake image data")
		source = SourceUpload
	})

	JustBeforeEach(func() {
		doc, err = NewDocument(filename, contentType, data, source)
	})

	When("uploading a JPEG", func() {
		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should tag it as an image", func() {
			Expect(doc.Media).To(Equal(MediaImage))
			Expect(doc.ContentType).To(Equal("image/jpeg"))
		})

		It("should sanitize the filename", func() {
			Expect(doc.Filename).To(Equal("IMG_2024 1.jpg"))
		})
	})

	When("the browser sends a generic content type", func() {
		BeforeEach(func() {
			filename = "racun.PNG"
			contentType = "application/octet-stream"
		})

		It("should fall back to the extension", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.ContentType).To(Equal("image/png"))
		})
	})

	When("the content type carries parameters", func() {
		BeforeEach(func() {
			contentType = "image/jpg; charset=binary"
		})

		It("should normalize it", func() {
			Expect(doc.ContentType).To(Equal("image/jpeg"))
		})
	})

	When("uploading a PDF", func() {
		BeforeEach(func() {
			filename = "racun.pdf"
			contentType = "application/pdf"
			data = []byte("%PDF-1.4 not really a pdf")
		})

		It("should tag it as a PDF", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Media).To(Equal(MediaPDF))
		})

		It("should report zero pages when the PDF cannot be read", func() {
			Expect(doc.Pages).To(Equal(0))
		})
	})

	When("uploading a kind outside pdf/jpg/jpeg/png", func() {
		BeforeEach(func() {
			filename = "notes.txt"
			contentType = "text/plain"
		})

		It("returns an unsupported document error", func() {
			Expect(err).To(MatchError(ErrUnsupportedDocument))
		})
	})

	When("uploading a HEIC file", func() {
		BeforeEach(func() {
			filename = "photo.heic"
			contentType = ""
		})

		It("is rejected from the file picker", func() {
			Expect(err).To(MatchError(ErrUnsupportedDocument))
		})
	})

	When("the camera captures a HEIC image", func() {
		BeforeEach(func() {
			filename = "capture.heic"
			contentType = "image/heic"
			source = SourceCamera
		})

		It("is accepted", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Source).To(Equal(SourceCamera))
			Expect(doc.Media).To(Equal(MediaImage))
		})
	})

	When("the camera sends a PDF", func() {
		BeforeEach(func() {
			filename = "x.pdf"
			contentType = "application/pdf"
			source = SourceCamera
		})

		It("is rejected", func() {
			Expect(err).To(MatchError(ErrUnsupportedDocument))
		})
	})

	When("the payload is empty", func() {
		BeforeEach(func() {
			data = nil
		})

		It("is rejected", func() {
			Expect(err).To(MatchError(ErrUnsupportedDocument))
		})
	})

	When("neither type nor extension is known", func() {
		BeforeEach(func() {
			filename = "blob"
			contentType = ""
			data = tinyPNG()
		})

		It("sniffs the content", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.ContentType).To(Equal("image/png"))
		})
	})
})

var _ = Describe("ParseSource", func() {
	It("recognizes the camera", func() {
		Expect(ParseSource("Camera")).To(Equal(SourceCamera))
	})

	It("defaults to upload", func() {
		Expect(ParseSource("")).To(Equal(SourceUpload))
		Expect(ParseSource("scanner")).To(Equal(SourceUpload))
	})
})

var _ = Describe("Document.Preview", func() {
	It("passes PNG data through", func() {
		data := tinyPNG()
		doc, err := NewDocument("r.png", "image/png", data, SourceUpload)
		Expect(err).NotTo(HaveOccurred())

		preview, ct, err := doc.Preview()
		Expect(err).NotTo(HaveOccurred())
		Expect(ct).To(Equal("image/png"))
		Expect(preview).To(Equal(data))
	})

	It("fails for undecodable camera images", func() {
		doc := Document{ContentType: "image/gif", Media: MediaImage, Data: []byte("nope")}
		_, _, err := doc.Preview()
		Expect(err).To(HaveOccurred())
	})
})

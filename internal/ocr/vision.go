package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// VisionProvider implements Provider using the Google Cloud Vision API.
type VisionProvider struct {
	credentialsFile string

	mu     sync.Mutex
	client *vision.ImageAnnotatorClient
}

// NewVisionProvider creates an OCR provider backed by Cloud Vision document
// text detection. With no credentials file, application default credentials
// are used.
func NewVisionProvider(config *Config) *VisionProvider {
	return &VisionProvider{credentialsFile: config.CredentialsFile}
}

func (p *VisionProvider) getClient(ctx context.Context) (*vision.ImageAnnotatorClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	var opts []option.ClientOption
	if p.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(p.credentialsFile))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	p.client = client
	return client, nil
}

// Recognize sends the image to Cloud Vision document text detection and
// returns the detected text.
func (p *VisionProvider) Recognize(ctx context.Context, imagePath string) (string, error) {
	client, err := p.getClient(ctx)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	resp, err := client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image:    &visionpb.Image{Content: content},
			Features: []*visionpb.Feature{{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION}},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("vision API error: %w", err)
	}

	return documentText(resp)
}

// documentText pulls the full-text annotation out of a batch response. A
// response without an annotation (blank page) yields empty text, not an
// error.
func documentText(resp *visionpb.BatchAnnotateImagesResponse) (string, error) {
	if resp == nil || len(resp.Responses) == 0 {
		return "", nil
	}
	r := resp.Responses[0]
	if r.Error != nil {
		return "", fmt.Errorf("vision API error: %s", r.Error.GetMessage())
	}
	return strings.TrimSpace(r.GetFullTextAnnotation().GetText()), nil
}

// Name returns the provider name
func (p *VisionProvider) Name() string {
	return "vision"
}

// IsAvailable checks if credentials are configured
func (p *VisionProvider) IsAvailable() error {
	if p.credentialsFile != "" {
		if _, err := os.Stat(p.credentialsFile); err != nil {
			return fmt.Errorf("credentials file not found: %s", p.credentialsFile)
		}
		return nil
	}
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		return fmt.Errorf("no Cloud Vision credentials: set GOOGLE_APPLICATION_CREDENTIALS or --vision-credentials")
	}
	return nil
}

// Close releases the underlying API client.
func (p *VisionProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		err := p.client.Close()
		p.client = nil
		return err
	}
	return nil
}

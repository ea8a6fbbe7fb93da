package provider

import "os"

// ProviderBuilder constructs adapters so that every instance satisfies the
// Adapter interface and reads its credentials the same way.
type ProviderBuilder struct{}

func (ProviderBuilder) NewNewsAPIProvider(client HttpClient) *NewsAPIProvider {
	return &NewsAPIProvider{Client: client, ApiKey: os.Getenv("NEWS_API_KEY")}
}

func (ProviderBuilder) NewGuardianProvider(client HttpClient) *GuardianProvider {
	return &GuardianProvider{Client: client, ApiKey: os.Getenv("GUARDIAN_API_KEY")}
}

func (ProviderBuilder) NewNYTimesProvider(client HttpClient) *NYTimesProvider {
	return &NYTimesProvider{Client: client, ApiKey: os.Getenv("NYTIMES_API_KEY")}
}

// DefaultRegistry wires all three adapters with a shared client configured
// from the environment.
func DefaultRegistry() *Registry {
	client := NewHttpClient()
	var builder ProviderBuilder
	return NewRegistry(
		builder.NewNewsAPIProvider(client),
		builder.NewGuardianProvider(client),
		builder.NewNYTimesProvider(client),
	)
}

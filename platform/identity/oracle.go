package identity

import (
	"context"

	"github.com/foodcourt-platform/platform/apierr"
)

// Oracle bundles the provider secret and principal store behind the two operations spec §4.1
// names: resolvePrincipal and authorize. It is constructed once at startup and passed explicitly
// (spec §9: "a single constructed Services value", never an ambient global).
type Oracle struct {
	ProviderSecret string
	Principals     Store
	Scope          ScopeResolver
}

func NewOracle(providerSecret string, principals Store, scope ScopeResolver) *Oracle {
	return &Oracle{ProviderSecret: providerSecret, Principals: principals, Scope: scope}
}

// ResolvePrincipal validates token and resolves its subject to an existing Principal. It never
// creates a Principal — that only happens through ResolveOrBootstrap (spec §4.1(c)).
func (o *Oracle) ResolvePrincipal(ctx context.Context, token string) (*Principal, error) {
	env, sig, err := Parse(token)
	if err != nil {
		return nil, apierr.Wrap(apierr.Unauthenticated, "malformed session token", err)
	}
	if err := Verify(env, sig, o.ProviderSecret); err != nil {
		return nil, err
	}

	subject, ok := env["subject"]
	if !ok || subject == "" {
		return nil, apierr.New(apierr.Unauthenticated, "token missing subject")
	}

	principal, err := o.Principals.FindByExternalID(ctx, subject)
	if err != nil {
		return nil, apierr.Wrap(apierr.Unauthenticated, "principal lookup failed", err)
	}
	if principal == nil {
		return nil, apierr.New(apierr.Unauthenticated, "subject does not resolve to a known principal")
	}
	return principal, nil
}

// ResolveOrBootstrap is the dedicated bootstrap path (spec §4.1(c), §6 POST /auth/session):
// it creates a Customer principal on first contact instead of rejecting an unknown subject.
func (o *Oracle) ResolveOrBootstrap(ctx context.Context, token string) (*Principal, error) {
	env, sig, err := Parse(token)
	if err != nil {
		return nil, apierr.Wrap(apierr.Unauthenticated, "malformed session token", err)
	}
	if err := Verify(env, sig, o.ProviderSecret); err != nil {
		return nil, err
	}

	subject, ok := env["subject"]
	if !ok || subject == "" {
		return nil, apierr.New(apierr.Unauthenticated, "token missing subject")
	}

	principal, err := o.Principals.FindByExternalID(ctx, subject)
	if err != nil {
		return nil, apierr.Wrap(apierr.Unauthenticated, "principal lookup failed", err)
	}
	if principal != nil {
		return principal, nil
	}
	return o.Principals.CreateCustomer(ctx, subject)
}

// Authorize delegates to the package-level matrix implementation.
func (o *Oracle) Authorize(ctx context.Context, p Principal, verb Verb, res Resource) error {
	return Authorize(ctx, o.Scope, p, verb, res)
}

package service

import "context"

// curatorGroupName is the Cognito group middleware.roleFromGroups resolves
// to models.RoleCurator.
const curatorGroupName = "curators"

// CuratorService administers curator accounts: granting or revoking the
// curator role and suspending accounts that misbehave. It is the
// application-facing surface over the raw Cognito admin API.
type CuratorService interface {
	// PromoteToCurator grants userID the curator role.
	PromoteToCurator(ctx context.Context, userID string) error

	// DemoteFromCurator revokes userID's curator role.
	DemoteFromCurator(ctx context.Context, userID string) error

	// ListRoles returns the Cognito groups userID belongs to.
	ListRoles(ctx context.Context, userID string) ([]string, error)

	// SuspendUser disables userID's account, preventing sign-in.
	SuspendUser(ctx context.Context, userID string) error

	// ReinstateUser re-enables a previously suspended account.
	ReinstateUser(ctx context.Context, userID string) error
}

type curatorService struct {
	cognito CognitoClient
}

// NewCuratorService builds a CuratorService backed by cognito.
func NewCuratorService(cognito CognitoClient) CuratorService {
	return &curatorService{cognito: cognito}
}

func (s *curatorService) PromoteToCurator(ctx context.Context, userID string) error {
	return s.cognito.AddUserToGroup(ctx, userID, curatorGroupName)
}

func (s *curatorService) DemoteFromCurator(ctx context.Context, userID string) error {
	return s.cognito.RemoveUserFromGroup(ctx, userID, curatorGroupName)
}

func (s *curatorService) ListRoles(ctx context.Context, userID string) ([]string, error) {
	return s.cognito.GetUserGroups(ctx, userID)
}

func (s *curatorService) SuspendUser(ctx context.Context, userID string) error {
	return s.cognito.DisableUser(ctx, userID)
}

func (s *curatorService) ReinstateUser(ctx context.Context, userID string) error {
	return s.cognito.EnableUser(ctx, userID)
}

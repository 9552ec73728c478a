package content

import "context"

// ContentTypeService resolves content types. Implementations return a
// *NotFoundError when the identifier is unknown.
type ContentTypeService interface {
	LoadContentTypeByIdentifier(ctx context.Context, identifier string) (ContentType, error)
	CreateContentType(ctx context.Context, contentType ContentType) (ContentType, error)
	UpdateFieldDefinition(ctx context.Context, contentTypeIdentifier, fieldIdentifier string, update FieldDefinitionUpdateStruct) (ContentType, error)
}

// LocationService resolves locations in the content tree.
type LocationService interface {
	LoadLocation(ctx context.Context, id int64) (Location, error)
	NewLocationCreateStruct(parentLocationID int64) LocationCreateStruct
}

// ContentService persists content built from a submitted form.
type ContentService interface {
	CreateContent(ctx context.Context, create ContentCreateStruct) (Content, error)
	LoadContent(ctx context.Context, id int64, versionNo int) (Content, error)
	UpdateContent(ctx context.Context, update ContentUpdateStruct) (Content, error)
}

// PermissionResolver answers whether the current user may perform
// module/function on an optional target.
type PermissionResolver interface {
	CanUser(ctx context.Context, module, function string, target any) (bool, error)
}

// Permission modules and functions checked by the form layer.
const (
	ModuleContent = "content"

	FunctionRead   = "read"
	FunctionCreate = "create"
	FunctionEdit   = "edit"
)

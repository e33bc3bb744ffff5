package domain

type Supplier struct {
	Meta            `bson:",inline"`
	Name            string `bson:"name" json:"name" validate:"required,max=200"`
	Email           string `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Phone           string `bson:"phone,omitempty" json:"phone,omitempty"`
	Website         string `bson:"website,omitempty" json:"website,omitempty" validate:"omitempty,url"`
	IntegrationType string `bson:"integrationType,omitempty" json:"integrationType,omitempty" validate:"omitempty,oneof=api webhook graphql soap email"`
	IntegrationID   string `bson:"integrationId,omitempty" json:"integrationId,omitempty"`
	Notes           string `bson:"notes,omitempty" json:"notes,omitempty"`
}

type SupplierPatch struct {
	Name            *string `bson:"name,omitempty" json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email           *string `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email"`
	Phone           *string `bson:"phone,omitempty" json:"phone,omitempty"`
	Website         *string `bson:"website,omitempty" json:"website,omitempty" validate:"omitempty,url"`
	IntegrationType *string `bson:"integrationType,omitempty" json:"integrationType,omitempty" validate:"omitempty,oneof=api webhook graphql soap email"`
	IntegrationID   *string `bson:"integrationId,omitempty" json:"integrationId,omitempty"`
	Notes           *string `bson:"notes,omitempty" json:"notes,omitempty"`
}

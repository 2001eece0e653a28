// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

// Response data fields.
const (
	FieldGetInitializationData  = "getInitializationData"
	FieldGetVault               = "getVault"
	FieldListVaults             = "listVaults"
	FieldListVaultsMetadataOnly = "listVaultsMetadataOnly"
	FieldCreateVault            = "createVault"
	FieldUpdateVault            = "updateVault"
	FieldDeleteVault            = "deleteVault"
	FieldDeregister             = "deregister"
)

const vaultMetadataSelection = `
    id
    version
    createdAtEpochMs
    updatedAtEpochMs
    owner
    blobFormat
    encryptionMethod
    owners {
      id
      issuer
    }`

const vaultSelection = `
    id
    version
    createdAtEpochMs
    updatedAtEpochMs
    owner
    blob
    blobFormat
    encryptionMethod
    owners {
      id
      issuer
    }`

const (
	getInitializationDataDocument = `query GetInitializationData {
  getInitializationData {
    owner
    encryptionSalt
    authenticationSalt
    pbkdfRounds
  }
}`

	getVaultDocument = `query GetVault($token: String!, $id: ID!) {
  getVault(token: $token, id: $id) {` + vaultSelection + `
  }
}`

	listVaultsDocument = `query ListVaults($token: String!, $limit: Int, $nextToken: String) {
  listVaults(token: $token, limit: $limit, nextToken: $nextToken) {
    items {` + vaultSelection + `
    }
    nextToken
  }
}`

	listVaultsMetadataOnlyDocument = `query ListVaultsMetadataOnly($limit: Int, $nextToken: String) {
  listVaultsMetadataOnly(limit: $limit, nextToken: $nextToken) {
    items {` + vaultMetadataSelection + `
    }
    nextToken
  }
}`

	createVaultDocument = `mutation CreateVault($input: CreateVaultInput) {
  createVault(input: $input) {` + vaultMetadataSelection + `
  }
}`

	updateVaultDocument = `mutation UpdateVault($input: UpdateVaultInput) {
  updateVault(input: $input) {` + vaultMetadataSelection + `
  }
}`

	deleteVaultDocument = `mutation DeleteVault($input: DeleteVaultInput) {
  deleteVault(input: $input) {` + vaultMetadataSelection + `
  }
}`

	deregisterDocument = `mutation Deregister {
  deregister {
    username
  }
}`
)

func NewGetInitializationDataQuery() Query {
	return Query{OperationName: "GetInitializationData", Query: getInitializationDataDocument}
}

func NewGetVaultQuery(token, id string) Query {
	return Query{
		OperationName: "GetVault",
		Query:         getVaultDocument,
		Variables:     map[string]any{"token": token, "id": id},
	}
}

// NewListVaultsQuery builds a ListVaults page request. A nil limit or
// nextToken is omitted.
func NewListVaultsQuery(token string, limit *int, nextToken *string) Query {
	vars := map[string]any{"token": token}
	setPaging(vars, limit, nextToken)
	return Query{OperationName: "ListVaults", Query: listVaultsDocument, Variables: vars}
}

func NewListVaultsMetadataOnlyQuery(limit *int, nextToken *string) Query {
	vars := map[string]any{}
	setPaging(vars, limit, nextToken)
	return Query{OperationName: "ListVaultsMetadataOnly", Query: listVaultsMetadataOnlyDocument, Variables: vars}
}

func NewCreateVaultMutation(input CreateVaultInput) Mutation {
	return Mutation{
		OperationName: "CreateVault",
		Query:         createVaultDocument,
		Variables:     map[string]any{"input": input},
	}
}

func NewUpdateVaultMutation(input UpdateVaultInput) Mutation {
	return Mutation{
		OperationName: "UpdateVault",
		Query:         updateVaultDocument,
		Variables:     map[string]any{"input": input},
	}
}

func NewDeleteVaultMutation(input DeleteVaultInput) Mutation {
	return Mutation{
		OperationName: "DeleteVault",
		Query:         deleteVaultDocument,
		Variables:     map[string]any{"input": input},
	}
}

func NewDeregisterMutation() Mutation {
	return Mutation{OperationName: "Deregister", Query: deregisterDocument}
}

func setPaging(vars map[string]any, limit *int, nextToken *string) {
	if limit != nil {
		vars["limit"] = *limit
	}
	if nextToken != nil {
		vars["nextToken"] = *nextToken
	}
}

//go:generate mockgen -source=../connector.go -destination=./mock_reader.go -package=mocks

package mocks

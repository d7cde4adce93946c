//go:generate mockgen -source=../logger.go               -destination=./mock_logger.go               -package=mocks
//go:generate mockgen -source=../log_client.go           -destination=./mock_log_client.go           -package=mocks
//go:generate mockgen -source=../content_wrapper.go      -destination=./mock_content_wrapper.go      -package=mocks
//go:generate mockgen -source=../message_receiver.go     -destination=./mock_message_receiver.go     -package=mocks
//go:generate mockgen -source=../message_handler.go      -destination=./mock_message_handler.go      -package=mocks
//go:generate mockgen -source=../message_cache.go        -destination=./mock_message_cache.go        -package=mocks
//go:generate mockgen -source=../message_read_service.go -destination=./mock_message_read_service.go -package=mocks

package mocks
